package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind tells where a document is read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source locates an OpenAPI document.
type Source struct {
	Kind     SourceKind
	Location string
}

// SourceFromFile points at a document on disk.
func SourceFromFile(path string) Source {
	return Source{Kind: SourceKindFile, Location: filepath.Clean(path)}
}

// SourceFromFS points at a document inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return Source{Kind: SourceKindFS, Location: name}
}

// SourceFromURL points at a document served over HTTP.
func SourceFromURL(raw string) (Source, error) {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return Source{}, fmt.Errorf("openapi: invalid url %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Source{}, fmt.Errorf("openapi: unsupported scheme %q", parsed.Scheme)
	}
	return Source{Kind: SourceKindURL, Location: parsed.String()}, nil
}

// ParseSource picks the source kind from the shape of location: http(s)
// URLs are fetched, anything else is read from disk.
func ParseSource(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Source{}, fmt.Errorf("openapi: empty document location")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return SourceFromURL(location)
	}
	return SourceFromFile(location), nil
}
