// Package log wraps zerolog with ingestflow's component-logger conventions.
package log
