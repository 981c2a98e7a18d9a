// Package editing holds the in-progress values of a form page. Data is a
// persistent map: With returns a new value and leaves the receiver intact,
// so a submit can hand a snapshot to the API while the user keeps typing.
package editing
