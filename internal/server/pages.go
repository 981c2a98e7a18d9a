package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/notify"
	"github.com/goliatone/go-formpage/pkg/page"
	"github.com/goliatone/go-formpage/pkg/render"
	"github.com/goliatone/go-formpage/pkg/renderers/vanilla"
)

// PagePath is the route serving p. Update-profile pages need the record id.
func PagePath(p model.Page, id string) string {
	switch p.Kind {
	case model.PageKindCreate:
		return p.ListPath() + "/them-moi"
	case model.PageKindUpdateProfile:
		return p.ListPath() + "/cap-nhat/" + id
	default:
		return "/cai-dat/" + p.Entity.Slug
	}
}

func restorePath(p model.Page) string {
	return PagePath(p, "") + "/khoi-phuc"
}

func (s *Server) createPage(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.lookup(w, r, model.PageKindCreate); ok {
		s.serve(w, r, p, "")
	}
}

func (s *Server) profilePage(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.lookup(w, r, model.PageKindUpdateProfile); ok {
		s.serve(w, r, p, mux.Vars(r)["id"])
	}
}

func (s *Server) settingsPage(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.lookup(w, r, model.PageKindUpdateSettings); ok {
		s.serve(w, r, p, "")
	}
}

// serve mounts a fresh controller, then renders it on GET or submits the
// posted form on POST.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, p model.Page, id string) {
	log := loggerFrom(r.Context(), s.log)
	ctrl, err := s.controller(p, id, log)
	if err != nil {
		log.WithError(err).Error("build page controller")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer ctrl.Unmount()

	if err := ctrl.Mount(r.Context()); err != nil {
		log.WithError(err).Warn("mount page")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodGet {
		s.renderPage(w, r, ctrl, http.StatusOK, useFlash(w, r))
		return
	}

	sub, err := decodeSubmission(r)
	if err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}
	if !sub.matches(p) {
		http.Error(w, fmt.Sprintf("page %s does not accept method %q", p.ID, sub.Method), http.StatusBadRequest)
		return
	}
	if err := ctrl.Load(overlay(p, ctrl.Data().Map(), r.PostForm)); err != nil {
		log.WithError(err).Error("load posted values")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	out, err := ctrl.Submit(r.Context())
	switch {
	case err == nil:
		target := out.Navigate
		if target == "" {
			target = r.URL.Path
		}
		setFlash(w, out.Notification)
		http.Redirect(w, r, target, http.StatusSeeOther)
	case errors.Is(err, page.ErrInvalid):
		s.renderPage(w, r, ctrl, http.StatusUnprocessableEntity, nil)
	default:
		s.renderPage(w, r, ctrl, http.StatusBadGateway, nil)
	}
}

func (s *Server) restoreSettings(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r, model.PageKindUpdateSettings)
	if !ok {
		return
	}
	log := loggerFrom(r.Context(), s.log)
	ctrl, err := s.controller(p, "", log)
	if err != nil {
		log.WithError(err).Error("build page controller")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer ctrl.Unmount()

	out, err := ctrl.Restore(r.Context())
	if err != nil {
		log.WithError(err).Warn("restore settings")
	}
	if out.Notification.Text != "" {
		setFlash(w, out.Notification)
	}
	http.Redirect(w, r, PagePath(p, ""), http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, ctrl *page.Controller, status int, flash *notify.Message) {
	p := ctrl.Page()
	opts := ctrl.RenderOptions()
	if flash != nil {
		opts.Notification = flash
	}
	if p.Kind == model.PageKindUpdateSettings {
		opts.RestoreAction = restorePath(p)
	}

	body, err := s.renderer.Render(r.Context(), p, opts)
	if err != nil {
		loggerFrom(r.Context(), s.log).WithError(err).Error("render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	var links []map[string]any
	seen := make(map[string]bool)
	for _, p := range s.pages.Pages() {
		switch p.Kind {
		case model.PageKindUpdateSettings:
			links = append(links, link(PagePath(p, ""), render.SectionFor(p).Title))
		default:
			if !seen[p.Entity.Slug] {
				seen[p.Entity.Slug] = true
				links = append(links, link(p.ListPath(), "Quản lý "+p.Entity.Name))
			}
		}
	}
	s.renderLanding(w, r, render.HomeTitle, links)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	var (
		name  string
		links []map[string]any
	)
	for _, p := range s.pages.Pages() {
		if p.Entity.Slug != slug || p.Kind == model.PageKindUpdateSettings {
			continue
		}
		name = p.Entity.Name
		if p.Kind == model.PageKindCreate {
			links = append(links, link(PagePath(p, ""), render.SectionFor(p).Title))
		}
	}
	if name == "" {
		http.NotFound(w, r)
		return
	}
	s.renderLanding(w, r, "Quản lý "+name, links)
}

func (s *Server) renderLanding(w http.ResponseWriter, r *http.Request, title string, links []map[string]any) {
	data := map[string]any{
		"title":      title,
		"home_title": render.HomeTitle,
		"stylesheet": StaticPrefix + vanilla.StylesheetName,
		"links":      links,
	}
	if msg := useFlash(w, r); msg != nil {
		data["notification"] = map[string]any{"kind": string(msg.Kind), "text": msg.Text}
	}
	out, err := s.landing.RenderTemplate("landing", data)
	if err != nil {
		loggerFrom(r.Context(), s.log).WithError(err).Error("render landing")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, kind model.PageKind) (model.Page, bool) {
	p, ok := s.pages.BySlug(kind, strings.TrimSpace(mux.Vars(r)["slug"]))
	if !ok {
		http.NotFound(w, r)
	}
	return p, ok
}

func (s *Server) controller(p model.Page, id string, log *logrus.Entry) (*page.Controller, error) {
	return page.New(p, s.backend,
		page.WithRecordID(id),
		page.WithLogger(log),
		page.WithNotifier(notify.Logger{Entry: log}),
		page.WithSessionUpdater(s.session),
		page.WithServerErrors(s.serverErrors),
		page.WithClock(s.now),
	)
}

func link(href, label string) map[string]any {
	return map[string]any{"href": href, "label": label}
}
