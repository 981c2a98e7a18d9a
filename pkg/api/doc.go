// Package api talks to the admin backend. Every response is wrapped in a
// {status, result: {data, errors}} envelope; anything other than a SUCCESS
// status or a failed transport surfaces as *Error.
package api
