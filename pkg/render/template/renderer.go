package template

import (
	"io"
)

// TemplateRenderer is the seam between page renderers and a concrete
// template engine. Output is returned and, when writers are supplied, also
// copied to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
