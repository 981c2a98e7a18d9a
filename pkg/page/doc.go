// Package page drives one mounted form page: it owns the editing data,
// the validation errors and the alert flag, talks to the backend and
// reports outcomes through a notifier. Renderers read its Snapshot.
package page
