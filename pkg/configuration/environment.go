// Package configuration reads the admin host settings from the environment
// and optional .env files.
package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultEnvFiles are read, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load(DefaultEnvFiles)
	if err != nil {
		panic(err)
	}
	return c
})

// Configuration holds every setting of the admin host and the CLI.
type Configuration struct {
	Addr       string `env:"FORMPAGE_ADDR" envDefault:":8080"`
	APIBaseURL string `env:"FORMPAGE_API_BASE_URL" envDefault:"http://localhost:3000"`
	// PagesDir overrides the embedded page configurations when set.
	PagesDir string `env:"FORMPAGE_PAGES_DIR"`
	// LocalStore is the bbolt file persisting the signed-in user. Empty
	// keeps the session in memory.
	LocalStore          string        `env:"FORMPAGE_LOCAL_STORE"`
	RequestTimeout      time.Duration `env:"FORMPAGE_REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownGrace       time.Duration `env:"FORMPAGE_SHUTDOWN_GRACE" envDefault:"10s"`
	SurfaceServerErrors bool          `env:"FORMPAGE_SURFACE_SERVER_ERRORS" envDefault:"false"`
	// OpenAPI is a file path or URL of the backend description, used by lint.
	OpenAPI  string `env:"FORMPAGE_OPENAPI"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	logger *logrus.Logger
}

// Use returns the process-wide configuration, loading it on first use.
func Use() *Configuration {
	return singleton()
}

// LoadEnv loads the env files that exist and returns how many it read.
// Variables already set in the environment win.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads envFiles, then parses the environment.
func Load(envFiles []string) (*Configuration, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("configuration: load env files: %w", err)
	}
	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.logger = logrus.New()
	c.logger.SetLevel(c.LogrusLogLevel())
	c.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return c, nil
}

// Validate checks values env parsing cannot.
func (c *Configuration) Validate() error {
	var problems []error
	if base, err := url.Parse(c.APIBaseURL); err != nil || !base.IsAbs() {
		problems = append(problems, fmt.Errorf("configuration: FORMPAGE_API_BASE_URL %q must be an absolute url", c.APIBaseURL))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, fmt.Errorf("configuration: FORMPAGE_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.ShutdownGrace < 0 {
		problems = append(problems, fmt.Errorf("configuration: FORMPAGE_SHUTDOWN_GRACE must not be negative, got %s", c.ShutdownGrace))
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "silent", "error", "warn", "info", "debug":
		c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	default:
		problems = append(problems, fmt.Errorf("configuration: invalid LOG_LEVEL=%q (expected silent|error|warn|info|debug)", c.LogLevel))
	}
	return errors.Join(problems...)
}

// LogrusLogLevel maps LOG_LEVEL onto logrus.
func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger is configured with the parsed level.
func (c *Configuration) Logger() *logrus.Logger {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.SetLevel(c.LogrusLogLevel())
	}
	return c.logger
}
