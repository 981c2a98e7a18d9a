package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Document is a raw OpenAPI payload and where it came from.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument wraps raw, which must not be empty.
func NewDocument(src Source, raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns where the document was read from.
func (d Document) Source() Source {
	return d.source
}

// Location is shorthand for Source().Location.
func (d Document) Location() string {
	return d.source.Location
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Spec is a parsed document.
type Spec struct {
	doc      *openapi3.T
	basePath string
}

// Parse loads and validates the document with kin-openapi.
func Parse(ctx context.Context, doc Document) (*Spec, error) {
	if len(doc.raw) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	parsed, err := loader.LoadFromData(doc.raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: parse %s: %w", doc.Location(), err)
	}
	if err := parsed.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate %s: %w", doc.Location(), err)
	}
	if parsed.Paths == nil || parsed.Paths.Len() == 0 {
		return nil, fmt.Errorf("openapi: %s declares no paths", doc.Location())
	}
	return &Spec{doc: parsed, basePath: serverBasePath(parsed.Servers)}, nil
}

// Methods returns the verbs declared for path, or nil when the path is not
// documented. Path parameters match regardless of their names.
func (s *Spec) Methods(path string) []string {
	item := s.doc.Paths.Find(s.relative(path))
	if item == nil {
		return nil
	}
	var methods []string
	for method := range item.Operations() {
		methods = append(methods, strings.ToUpper(method))
	}
	return methods
}

// relative strips the server base path so endpoints written with it match
// the document's paths.
func (s *Spec) relative(path string) string {
	if s.basePath == "" || !strings.HasPrefix(path, s.basePath+"/") {
		return path
	}
	return strings.TrimPrefix(path, s.basePath)
}

func serverBasePath(servers openapi3.Servers) string {
	if len(servers) == 0 || servers[0] == nil {
		return ""
	}
	parsed, err := url.Parse(servers[0].URL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(parsed.Path, "/")
}
