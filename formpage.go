// Package formpage is the quick entry point to the admin form pages: the
// bundled configurations and templates, and one-call rendering.
package formpage

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/page"
	"github.com/goliatone/go-formpage/pkg/pageconfig"
	"github.com/goliatone/go-formpage/pkg/render"
	"github.com/goliatone/go-formpage/pkg/renderers/vanilla"
)

// Page aliases model.Page for callers that only need the root package.
type Page = model.Page

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// EmbeddedPages exposes the bundled page configurations.
func EmbeddedPages() fs.FS {
	return pageconfig.EmbeddedFS()
}

// EmbeddedTemplates exposes the vanilla renderer templates so callers can
// extend them. Files sit under templates/, the layout vanilla.WithTemplatesFS
// expects.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet served next to rendered pages.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}

// LoadPages reads dir, or the bundled configurations when dir is empty.
func LoadPages(dir string) (*pageconfig.Store, error) {
	if dir == "" {
		return pageconfig.LoadFS(EmbeddedPages())
	}
	return pageconfig.LoadDir(dir)
}

// Render mounts p against backend, fetching the record of update pages, and
// renders the result. A nil renderer means the vanilla HTML renderer.
func Render(ctx context.Context, p Page, backend page.Backend, renderer render.Renderer, options ...page.Option) ([]byte, error) {
	ctrl, err := page.New(p, backend, options...)
	if err != nil {
		return nil, err
	}
	defer ctrl.Unmount()

	if err := ctrl.Mount(ctx); err != nil {
		return nil, err
	}
	if renderer == nil {
		if renderer, err = vanilla.New(); err != nil {
			return nil, fmt.Errorf("formpage: %w", err)
		}
	}
	return renderer.Render(ctx, p, ctrl.RenderOptions())
}
