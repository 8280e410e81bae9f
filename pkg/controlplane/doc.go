package controlplane
