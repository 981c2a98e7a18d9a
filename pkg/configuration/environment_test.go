package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"FORMPAGE_ADDR", "FORMPAGE_API_BASE_URL", "FORMPAGE_REQUEST_TIMEOUT", "LOG_LEVEL", "FORMPAGE_SURFACE_SERVER_ERRORS"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	c, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != ":8080" || c.APIBaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.RequestTimeout != 15*time.Second || c.ShutdownGrace != 10*time.Second {
		t.Fatalf("unexpected durations: %s %s", c.RequestTimeout, c.ShutdownGrace)
	}
	if c.SurfaceServerErrors {
		t.Fatal("server errors must be off by default")
	}
	if c.Logger().GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", c.Logger().GetLevel())
	}
}

func TestLoadReadsEnvFileAndEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "FORMPAGE_ADDR=:9090\nFORMPAGE_API_BASE_URL=https://api.example.com\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("FORMPAGE_ADDR", ":7070")
	t.Setenv("FORMPAGE_API_BASE_URL", "")
	_ = os.Unsetenv("FORMPAGE_API_BASE_URL")
	t.Setenv("LOG_LEVEL", "")
	_ = os.Unsetenv("LOG_LEVEL")
	t.Setenv("FORMPAGE_SURFACE_SERVER_ERRORS", "true")

	n, err := LoadEnv([]string{file, filepath.Join(dir, ".env.local")})
	if err != nil || n != 1 {
		t.Fatalf("expected one env file, got %d (%v)", n, err)
	}

	c, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != ":7070" {
		t.Fatalf("environment must win over the env file, got %q", c.Addr)
	}
	if c.APIBaseURL != "https://api.example.com" {
		t.Fatalf("env file value not applied, got %q", c.APIBaseURL)
	}
	if c.LogrusLogLevel() != logrus.DebugLevel || !c.SurfaceServerErrors {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	c := &Configuration{APIBaseURL: "/relative", RequestTimeout: 0, LogLevel: "loud"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation errors")
	}

	c = &Configuration{APIBaseURL: "http://x", RequestTimeout: time.Second, LogLevel: " Silent "}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.LogrusLogLevel() != logrus.PanicLevel {
		t.Fatalf("silent should map to panic level, got %s", c.LogrusLogLevel())
	}
}
