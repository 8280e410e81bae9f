package resource

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a resource.Error by attributable origin.
type ErrorKind string

const (
	// ErrClient marks a caller-attributable failure: bad arguments, local
	// IO, malformed input.
	ErrClient ErrorKind = "client"
	// ErrService marks a peer-attributable failure: the control plane
	// failed after retries, or a pool/token is still empty after refresh.
	ErrService ErrorKind = "service"
	// ErrFatalConfig marks an unrecoverable control-plane response, such
	// as an unknown resource kind name.
	ErrFatalConfig ErrorKind = "fatal_config"
)

// Error is the error type surfaced by this package. Throttles are retried
// by RetryPolicy; one that persists past the last attempt is wrapped as
// ErrService.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewClientError builds a client-attributable Error.
func NewClientError(op string, err error) *Error { return &Error{Kind: ErrClient, Op: op, Err: err} }

// NewServiceError builds a service-attributable Error.
func NewServiceError(op string, err error) *Error { return &Error{Kind: ErrService, Op: op, Err: err} }

// NewFatalConfigError builds an unrecoverable configuration Error.
func NewFatalConfigError(op string, err error) *Error {
	return &Error{Kind: ErrFatalConfig, Op: op, Err: err}
}

// Origin attributes a ControlPlaneError to the service or the caller.
type Origin string

const (
	OriginService Origin = "service"
	OriginClient  Origin = "client"
)

// ControlPlaneError is returned by ControlPlaneClient implementations to let
// the retry policy and the refresh logic classify a failure without
// inspecting transport-specific details.
type ControlPlaneError struct {
	// Throttle marks a transient "retry later" signal from the control
	// plane. It never escapes this package — RetryPolicy consumes it.
	Throttle bool
	Origin   Origin
	Err      error
}

func (e *ControlPlaneError) Error() string {
	if e.Throttle {
		return fmt.Sprintf("control plane throttled: %v", e.Err)
	}
	return fmt.Sprintf("control plane error (%s): %v", e.Origin, e.Err)
}

func (e *ControlPlaneError) Unwrap() error { return e.Err }

// classify turns a possibly-nil control-plane error into a resource.Error:
// service-side failures become ErrService, everything else becomes
// ErrClient.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var cpErr *ControlPlaneError
	if errors.As(err, &cpErr) && cpErr.Origin == OriginService {
		return NewServiceError(op, err)
	}
	return NewClientError(op, err)
}
