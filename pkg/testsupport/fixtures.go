package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/pageconfig"
)

// Page ids of the bundled page configurations.
const (
	CreatePageID   = "them-san-bong"
	ProfilePageID  = "cap-nhat-tai-khoan"
	SettingsPageID = "cai-dat-he-thong"
)

// Pages loads the embedded page configurations.
func Pages(t testing.TB) *pageconfig.Store {
	t.Helper()

	store, err := pageconfig.LoadFS(pageconfig.EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded pages: %v", err)
	}
	return store
}

// Page returns one embedded page configuration by id.
func Page(t testing.TB, id string) model.Page {
	t.Helper()

	page, ok := Pages(t).Page(id)
	if !ok {
		t.Fatalf("page %q not found", id)
	}
	return page
}

// Logger returns a logger that records entries instead of printing them.
func Logger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs fn against a buffer and returns both the returned
// string and what was written, so tests can check they agree.
func CaptureOutput(t testing.TB, fn func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := fn(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
