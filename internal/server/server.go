// Package server hosts the form pages over HTTP. Every request gets its own
// page controller; writes answer with a redirect carrying the notification
// in a flash cookie, or re-render the page with its alert panel.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formpage/pkg/metrics"
	"github.com/goliatone/go-formpage/pkg/page"
	"github.com/goliatone/go-formpage/pkg/pageconfig"
	"github.com/goliatone/go-formpage/pkg/render"
	gotemplate "github.com/goliatone/go-formpage/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formpage/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpage/pkg/session"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// StaticPrefix is where the bundled stylesheet is served.
const StaticPrefix = "/static/"

// Option configures a Server.
type Option func(*Server)

// WithPages sets the page configurations to serve.
func WithPages(store *pageconfig.Store) Option {
	return func(s *Server) {
		s.pages = store
	}
}

// WithBackend sets the REST client pages talk to.
func WithBackend(backend page.Backend) Option {
	return func(s *Server) {
		s.backend = backend
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		s.renderer = renderer
	}
}

// WithSessionUpdater receives profile updates.
func WithSessionUpdater(updater session.Updater) Option {
	return func(s *Server) {
		s.session = updater
	}
}

// WithLogger sets the base logger of the request middleware.
func WithLogger(entry *logrus.Entry) Option {
	return func(s *Server) {
		if entry != nil {
			s.log = entry
		}
	}
}

// WithServerErrors shows backend field errors on failed writes.
func WithServerErrors(enabled bool) Option {
	return func(s *Server) {
		s.serverErrors = enabled
	}
}

// WithShutdownGrace bounds how long Run waits for in-flight requests.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		s.grace = d
	}
}

// WithClock sets the time source for date defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server is the admin HTTP host.
type Server struct {
	pages        *pageconfig.Store
	backend      page.Backend
	renderer     render.Renderer
	landing      *gotemplate.Engine
	session      session.Updater
	log          *logrus.Entry
	serverErrors bool
	grace        time.Duration
	now          func() time.Time
}

// New builds a Server. Pages and a backend are required.
func New(options ...Option) (*Server, error) {
	s := &Server{
		log:   logrus.NewEntry(logrus.StandardLogger()),
		grace: 10 * time.Second,
		now:   time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.pages.Empty() {
		return nil, errors.New("server: no pages configured")
	}
	if s.backend == nil {
		return nil, errors.New("server: backend is required")
	}
	if s.renderer == nil {
		renderer, err := vanilla.New(vanilla.WithStylesheets(StaticPrefix + vanilla.StylesheetName))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}

	files, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	landing, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.landing = landing
	return s, nil
}

// Router registers every route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(withLogger(s.log))

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix(StaticPrefix).Handler(http.StripPrefix(StaticPrefix, http.FileServer(http.FS(vanilla.AssetsFS())))).Methods(http.MethodGet)

	r.HandleFunc("/", s.home).Methods(http.MethodGet)
	r.HandleFunc("/quan-ly/{slug}", s.list).Methods(http.MethodGet)
	r.HandleFunc("/quan-ly/{slug}/them-moi", s.createPage).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/quan-ly/{slug}/cap-nhat/{id}", s.profilePage).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/cai-dat/{slug}", s.settingsPage).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/cai-dat/{slug}/khoi-phuc", s.restoreSettings).Methods(http.MethodPost)
	return r
}

// Handler is the gzip-compressed router.
func (s *Server) Handler() http.Handler {
	return gziphandler.GzipHandler(s.Router())
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("admin host listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	s.log.Info("admin host shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
