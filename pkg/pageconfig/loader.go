package pageconfig

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formpage/pkg/model"
)

// Store holds validated page configurations keyed by id.
type Store struct {
	pages map[string]model.Page
}

type documentFile struct {
	Pages map[string]model.Page `json:"pages" yaml:"pages"`
}

// LoadFS walks fsys and parses every JSON/YAML page file. Each file holds a
// `pages` map keyed by page id; ids must be unique across files. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{pages: make(map[string]model.Page)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPageFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("pageconfig: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawID, page := range doc.Pages {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("pageconfig: file %s defines an empty page id", path)
			}
			if _, exists := store.pages[id]; exists {
				return fmt.Errorf("pageconfig: duplicate page %q (file %s)", id, path)
			}
			page = normalise(id, page)
			if err := Validate(page); err != nil {
				return fmt.Errorf("pageconfig: file %s: %w", path, err)
			}
			store.pages[id] = page
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadDir loads page files from a directory on disk.
func LoadDir(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("pageconfig: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pageconfig: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// Page returns the configuration registered under id.
func (s *Store) Page(id string) (model.Page, bool) {
	if s == nil {
		return model.Page{}, false
	}
	page, ok := s.pages[id]
	return page, ok
}

// IDs returns every page id in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.pages))
	for id := range s.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pages returns every page ordered by id.
func (s *Store) Pages() []model.Page {
	ids := s.IDs()
	out := make([]model.Page, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.pages[id])
	}
	return out
}

// BySlug finds the page of the given kind editing the entity with slug.
func (s *Store) BySlug(kind model.PageKind, entitySlug string) (model.Page, bool) {
	if s == nil {
		return model.Page{}, false
	}
	for _, id := range s.IDs() {
		page := s.pages[id]
		if page.Kind == kind && page.Entity.Slug == entitySlug {
			return page, true
		}
	}
	return model.Page{}, false
}

// Empty reports whether the store holds any pages.
func (s *Store) Empty() bool {
	return s == nil || len(s.pages) == 0
}

func parseDocument(data []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("pageconfig: file %s is empty", source)
	}

	var doc documentFile
	jsonErr := json.Unmarshal(data, &doc)
	if jsonErr == nil {
		return doc, nil
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		return documentFile{}, fmt.Errorf("pageconfig: parse %s: %w", source, jsonErr)
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("pageconfig: parse %s: %w", source, err)
	}
	return doc, nil
}

func normalise(id string, page model.Page) model.Page {
	page.ID = id
	page.Entity.Name = strings.TrimSpace(page.Entity.Name)
	page.Entity.Slug = strings.Trim(strings.TrimSpace(page.Entity.Slug), "/")
	if page.Entity.Slug == "" {
		page.Entity.Slug = slug.Make(page.Entity.Name)
	}
	fields := make([]model.Field, len(page.Fields))
	for idx, field := range page.Fields {
		if field.Label == "" {
			field.Label = model.DefaultLabeler(field.PropForValue)
		}
		fields[idx] = field
	}
	page.Fields = fields
	return page
}

func isPageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
