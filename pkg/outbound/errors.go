package outbound

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCostUnavailable marks a cost fetch that failed; callers must treat the
// total cost as zero until a later fetch succeeds, never as partial data.
var ErrCostUnavailable = errors.New("cost data unavailable")

// ErrStaleResponse marks a response that arrived after its client was closed.
// The payload has been discarded and must not be applied.
var ErrStaleResponse = errors.New("stale response dropped")

// ErrSubmitInFlight is returned when a submit is refused because another
// submit for the same vehicle has not completed yet.
var ErrSubmitInFlight = errors.New("submit already in flight")

// ValidationError carries the per-field messages from a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// AuthError signals that the session is no longer accepted (401 or 403).
// Re-authentication is the caller's responsibility.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (%d)", e.StatusCode)
	}
	return e.Message
}

// NotFoundError signals a missing dependent resource. A vehicle with no
// outbound record yet is the common benign case.
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

// NetworkError wraps a transport failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a benign missing-resource condition.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAuthError reports whether err means the session must be re-established.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
