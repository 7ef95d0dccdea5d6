// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound marks a definitive not-found response from the registry.
// For sub-resources callers treat it as absence of evidence; for the
// company profile itself it is terminal for the run.
var ErrNotFound = errors.New("resource not found")

// ErrorKind classifies a failed registry call.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindServerError  ErrorKind = "server_error"
	KindNetworkError ErrorKind = "network_error"
)

// FetchError is the error the client returns once its retry budget for a
// call is exhausted (or immediately, for not-found).
type FetchError struct {
	Kind   ErrorKind
	Path   string
	Status int

	// RetryAfter is the server's hint on 429/5xx responses, when present.
	RetryAfter time.Duration

	// Err is the underlying transport error for network failures.
	Err error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("registry %s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("registry %s: %s: HTTP %d", e.Kind, e.Path, e.Status)
	default:
		return fmt.Sprintf("registry %s: %s", e.Kind, e.Path)
	}
}

// Unwrap lets errors.Is(err, ErrNotFound) work for not-found fetches and
// exposes the transport error otherwise.
func (e *FetchError) Unwrap() error {
	if e.Kind == KindNotFound {
		return ErrNotFound
	}
	return e.Err
}

// IsNotFound reports whether err is a definitive not-found response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
