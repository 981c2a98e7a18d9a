package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Response is a canned reply of the fake API.
type Response struct {
	// Code is the HTTP status; zero means 200.
	Code int
	// Status is the envelope status; empty means SUCCESS.
	Status string
	Data   any
	Errors map[string][]string
	// Gate, when set, holds the reply until it is closed or the client
	// goes away.
	Gate chan struct{}
}

// Request is a call the fake API received.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// FakeAPI is an httptest server answering with the {status, result} envelope
// of the admin backend.
type FakeAPI struct {
	server *httptest.Server

	mu        sync.Mutex
	routes    map[string]Response
	requests  []Request
	onRequest func(Request)
}

// NewFakeAPI starts a fake backend closed at the end of the test.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	api := &FakeAPI{routes: make(map[string]Response)}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)
	return api
}

// URL is the base URL of the server.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Handle sets the reply for method and path.
func (f *FakeAPI) Handle(method, path string, response Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[routeKey(method, path)] = response
}

// OnRequest registers a callback invoked for every request on arrival.
func (f *FakeAPI) OnRequest(fn func(Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onRequest = fn
}

// Requests returns the calls received so far.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Count returns how many calls matched method and path.
func (f *FakeAPI) Count(method, path string) int {
	n := 0
	for _, req := range f.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	req := Request{Method: r.Method, Path: r.URL.Path}
	if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &req.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	response, ok := f.routes[routeKey(r.Method, r.URL.Path)]
	hook := f.onRequest
	f.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	if !ok {
		writeEnvelope(w, http.StatusNotFound, "FAILED", nil, map[string][]string{"": {"not found"}})
		return
	}
	if response.Gate != nil {
		select {
		case <-response.Gate:
		case <-r.Context().Done():
			return
		}
	}

	code := response.Code
	if code == 0 {
		code = http.StatusOK
	}
	status := response.Status
	if status == "" {
		status = "SUCCESS"
	}
	writeEnvelope(w, code, status, response.Data, response.Errors)
}

func writeEnvelope(w http.ResponseWriter, code int, status string, data any, errs map[string][]string) {
	result := map[string]any{"data": data}
	if len(errs) > 0 {
		result["errors"] = errs
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "result": result})
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
