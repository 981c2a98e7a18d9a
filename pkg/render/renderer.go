package render

import (
	"context"

	"github.com/goliatone/go-formpage/pkg/model"
)

// Renderer converts a page configuration and its current view state into a
// byte representation (HTML, terminal transcript, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page model.Page, options RenderOptions) ([]byte, error)
}
