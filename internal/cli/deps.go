package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"

	formpage "github.com/goliatone/go-formpage"
	"github.com/goliatone/go-formpage/pkg/api"
	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/pageconfig"
	"github.com/goliatone/go-formpage/pkg/render"
	"github.com/goliatone/go-formpage/pkg/renderers/tui"
	"github.com/goliatone/go-formpage/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpage/pkg/session"
)

func (rt *runtime) log() *logrus.Entry {
	return logrus.NewEntry(rt.cfg.Logger())
}

// pages loads PagesDir when set, otherwise the bundled configurations.
func (rt *runtime) pages() (*pageconfig.Store, error) {
	return formpage.LoadPages(rt.cfg.PagesDir)
}

func (rt *runtime) page(id string) (model.Page, error) {
	store, err := rt.pages()
	if err != nil {
		return model.Page{}, err
	}
	p, ok := store.Page(id)
	if !ok {
		return model.Page{}, fmt.Errorf("unknown page %q (known: %v)", id, store.IDs())
	}
	return p, nil
}

func (rt *runtime) renderers(stylesheets []string) (*render.Registry, error) {
	html, err := vanilla.New(vanilla.WithStylesheets(stylesheets...))
	if err != nil {
		return nil, err
	}
	terminal, err := rt.terminal(tui.OutputFormatJSON)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(html, terminal), nil
}

func (rt *runtime) terminal(format tui.OutputFormat) (*tui.Renderer, error) {
	opts := []tui.Option{tui.WithOutputFormat(format)}
	if rt.driver != nil {
		opts = append(opts, tui.WithPromptDriver(rt.driver))
	}
	return tui.New(opts...)
}

func (rt *runtime) backend() (*api.Client, error) {
	return api.New(
		api.WithBaseURL(rt.cfg.APIBaseURL),
		api.WithTimeout(rt.cfg.RequestTimeout),
		api.WithLogger(rt.log()),
	)
}

// session keeps the user in memory and, when LocalStore is configured, in
// the bbolt file as well. The returned func releases the file.
func (rt *runtime) session() (session.Updater, func(), error) {
	global := &session.Global{}
	if rt.cfg.LocalStore == "" {
		return global, func() {}, nil
	}
	store, err := session.OpenLocalStore(rt.cfg.LocalStore)
	if err != nil {
		return nil, nil, err
	}
	return session.Chain{global, store}, func() {
		if err := store.Close(); err != nil {
			rt.log().WithError(err).Warn("close session store")
		}
	}, nil
}
