// Package model provides the language-model collaborator interface.
package model

import "context"

// Model represents an external text-completion endpoint.
//
// The pipeline treats every implementation as optional and fallible: a
// failed or malformed call selects the deterministic path, it never
// surfaces to the caller.
type Model interface {
	// Generate runs one completion request. Implementations make exactly
	// one attempt; the pipeline never retries a stage.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// IsAvailable checks if the endpoint is configured.
	IsAvailable() bool

	// Name returns the model identifier.
	Name() string
}
