package config

import (
	"fmt"
	"strings"
)

// Synthesis backends for the audio assembler.
const (
	BackendCLI  = "cli"
	BackendHTTP = "http"
)

// NormalizeBackend maps a raw backend string to its canonical form.
// An empty string selects the CLI backend.
func NormalizeBackend(raw string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(raw))
	if backend == "" {
		backend = BackendCLI
	}
	switch backend {
	case BackendCLI, BackendHTTP:
		return backend, nil
	default:
		return "", fmt.Errorf("invalid backend %q (expected %s|%s)", raw, BackendCLI, BackendHTTP)
	}
}
