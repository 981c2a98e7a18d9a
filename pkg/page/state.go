package page

import "errors"

// State is where a page is in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// Busy reports whether a request is in flight.
func (s State) Busy() bool {
	return s == StateLoading || s == StateSubmitting
}

var (
	// ErrBusy is returned when a submit or restore starts while another
	// request of the page is in flight. No request is made.
	ErrBusy = errors.New("page: request already in flight")
	// ErrUnmounted is returned by any operation on an unmounted page, and
	// by requests whose page was unmounted before they completed.
	ErrUnmounted = errors.New("page: unmounted")
	// ErrUnsupported is returned for operations the page kind lacks.
	ErrUnsupported = errors.New("page: operation not supported by page kind")
	// ErrInvalid is returned by Submit when client-side validation fails.
	ErrInvalid = errors.New("page: validation failed")
	// ErrMissingID is returned when an update page has no record id.
	ErrMissingID = errors.New("page: record id is required")
)
