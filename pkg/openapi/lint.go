package openapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-formpage/pkg/model"
)

// Problem classifies a lint finding.
type Problem string

const (
	ProblemNoEndpoint  Problem = "no-endpoint"
	ProblemMissingPath Problem = "missing-path"
	ProblemWrongMethod Problem = "wrong-method"
)

// Finding is one endpoint of one page that does not line up with the
// document.
type Finding struct {
	PageID    string
	Operation string
	Method    string
	Path      string
	Problem   Problem
	// Declared lists the verbs the document has for Path.
	Declared []string
}

func (f Finding) String() string {
	switch f.Problem {
	case ProblemNoEndpoint:
		return fmt.Sprintf("%s: %s endpoint is not configured", f.PageID, f.Operation)
	case ProblemMissingPath:
		return fmt.Sprintf("%s: %s %s %s is not documented", f.PageID, f.Operation, f.Method, f.Path)
	default:
		return fmt.Sprintf("%s: %s %s %s is documented as %s", f.PageID, f.Operation, f.Method, f.Path, strings.Join(f.Declared, ","))
	}
}

// Report is the outcome of Lint.
type Report struct {
	Checked  int
	Findings []Finding
}

// OK reports whether every endpoint matched.
func (r Report) OK() bool {
	return len(r.Findings) == 0
}

type endpoint struct {
	operation string
	method    string
	path      string
}

// Lint checks that each page endpoint is documented with the verb the page
// uses: create POST, getById and getAll GET, updateById and restore PUT.
func Lint(ctx context.Context, doc Document, pages []model.Page) (Report, error) {
	spec, err := Parse(ctx, doc)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for _, ep := range endpointsOf(page) {
			report.Checked++
			finding := Finding{PageID: page.ID, Operation: ep.operation, Method: ep.method, Path: ep.path}
			if ep.path == "" {
				finding.Problem = ProblemNoEndpoint
				report.Findings = append(report.Findings, finding)
				continue
			}
			declared := spec.Methods(ep.path)
			if declared == nil {
				finding.Problem = ProblemMissingPath
				report.Findings = append(report.Findings, finding)
				continue
			}
			if !slices.Contains(declared, ep.method) {
				sort.Strings(declared)
				finding.Problem = ProblemWrongMethod
				finding.Declared = declared
				report.Findings = append(report.Findings, finding)
			}
		}
	}
	return report, nil
}

func endpointsOf(page model.Page) []endpoint {
	withID := func(base string) string {
		if base = pathOf(base); base == "" {
			return ""
		}
		return strings.TrimRight(base, "/") + "/{id}"
	}
	switch page.Kind {
	case model.PageKindCreate:
		return []endpoint{
			{"create", http.MethodPost, pathOf(page.API.Create)},
		}
	case model.PageKindUpdateProfile:
		return []endpoint{
			{"getById", http.MethodGet, withID(page.API.GetByID)},
			{"updateById", http.MethodPut, withID(page.API.UpdateByID)},
		}
	case model.PageKindUpdateSettings:
		return []endpoint{
			{"getAll", http.MethodGet, pathOf(page.API.GetAll)},
			{"updateById", http.MethodPut, withID(page.API.UpdateByID)},
			{"restore", http.MethodPut, pathOf(page.API.Restore)},
		}
	}
	return nil
}

// pathOf keeps the path of absolute endpoint URLs.
func pathOf(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if parsed, err := url.Parse(endpoint); err == nil && parsed.IsAbs() {
		endpoint = parsed.Path
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return endpoint
}
