package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const maxDocument = 8 << 20

// LoaderOption configures Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	files   fs.FS
	client  *http.Client
	timeout time.Duration
}

// WithFileSystem resolves SourceKindFS locations.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(cfg *loaderConfig) {
		cfg.files = files
	}
}

// WithHTTPClient replaces the client used for URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(cfg *loaderConfig) {
		if client != nil {
			cfg.client = client
		}
	}
}

// WithTimeout caps the fetch of URL sources.
func WithTimeout(d time.Duration) LoaderOption {
	return func(cfg *loaderConfig) {
		cfg.timeout = d
	}
}

// Load reads the raw document behind src.
func Load(ctx context.Context, src Source, options ...LoaderOption) (Document, error) {
	cfg := loaderConfig{client: cleanhttp.DefaultClient(), timeout: 30 * time.Second}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		raw []byte
		err error
	)
	switch src.Kind {
	case SourceKindFile:
		raw, err = os.ReadFile(src.Location)
	case SourceKindFS:
		if cfg.files == nil {
			return Document{}, errors.New("openapi: filesystem is not configured")
		}
		raw, err = fs.ReadFile(cfg.files, src.Location)
	case SourceKindURL:
		raw, err = fetch(ctx, cfg, src.Location)
	default:
		return Document{}, fmt.Errorf("openapi: unsupported source kind %q", src.Kind)
	}
	if err != nil {
		return Document{}, fmt.Errorf("openapi: load %s: %w", src.Location, err)
	}
	return NewDocument(src, raw)
}

func fetch(ctx context.Context, cfg loaderConfig, target string) ([]byte, error) {
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := cfg.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocument))
}
