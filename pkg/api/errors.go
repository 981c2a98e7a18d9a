package api

import (
	"errors"
	"fmt"
)

// Kind tells fetch failures from write failures.
type Kind string

const (
	KindFetch Kind = "fetch"
	KindWrite Kind = "write"
)

// Error describes a failed backend call. FieldErrors keeps whatever the
// backend reported under result.errors so callers can opt into showing it.
type Error struct {
	Kind        Kind
	Method      string
	URL         string
	StatusCode  int
	Status      string
	FieldErrors map[string][]string
	Err         error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("api: %s %s %s", e.Kind, e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": http %d", e.StatusCode)
	}
	if e.Status != "" && e.Status != StatusSuccess {
		msg += fmt.Sprintf(": status %s", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
