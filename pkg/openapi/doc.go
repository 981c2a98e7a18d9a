// Package openapi checks the endpoints of page configurations against an
// OpenAPI 3 description of the admin backend.
package openapi
