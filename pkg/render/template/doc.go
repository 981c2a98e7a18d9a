// Package template defines the template engine seam used by the HTML page
// renderer. The gotemplate subpackage provides the pongo2 implementation.
package template
