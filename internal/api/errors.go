package api

import (
	"fmt"
	"strings"
)

// FetchError reports a failed call against the tracking API. It is never
// fatal: callers recover by showing an empty list and logging.
type FetchError struct {
	Endpoint string
	Status   int // 0 when the request never reached the server
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %s (http %d)", e.Endpoint, e.Message, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s", e.Endpoint, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError carries per-field messages from a rejected create/update.
// Surfaced inline next to the form field; hierarchy state is untouched.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError returns the message for one field, or "" when the field passed.
func (e *ValidationError) FieldError(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}
