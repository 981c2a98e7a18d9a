package page

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formpage/pkg/notify"
	"github.com/goliatone/go-formpage/pkg/session"
	"github.com/goliatone/go-formpage/pkg/validation"
)

// DefaultSettingsIDKey is the editing data key holding the settings record id.
const DefaultSettingsIDKey = "maCaiDat"

// Backend is the REST surface a page needs. *api.Client satisfies it.
type Backend interface {
	GetByID(ctx context.Context, base, id string) (map[string]any, error)
	GetAll(ctx context.Context, endpoint string) (map[string]any, error)
	Create(ctx context.Context, endpoint string, body any) (map[string]any, error)
	UpdateByID(ctx context.Context, base, id string, body any) (map[string]any, error)
	Restore(ctx context.Context, endpoint string) (map[string]any, error)
}

// Navigator moves the host to another route after a successful write.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	if f != nil {
		f(path)
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecordID sets the id fetched and updated by update-profile pages.
func WithRecordID(id string) Option {
	return func(c *Controller) {
		c.recordID = strings.TrimSpace(id)
	}
}

// WithNotifier routes success and error notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithNavigator receives navigation targets after successful writes.
func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		c.navigator = n
	}
}

// WithSessionUpdater receives the record returned by a profile update.
func WithSessionUpdater(u session.Updater) Option {
	return func(c *Controller) {
		c.session = u
	}
}

// WithLogger sets the logger; entries carry the page id and kind.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Controller) {
		if entry != nil {
			c.log = entry
		}
	}
}

// WithValidator replaces the default validation engine.
func WithValidator(engine *validation.Engine) Option {
	return func(c *Controller) {
		if engine != nil {
			c.validator = engine
		}
	}
}

// WithClock sets the time source used for date defaults.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithServerErrors surfaces field errors reported by the backend on a
// failed write. Off by default: the page only shows the error notification.
func WithServerErrors(enabled bool) Option {
	return func(c *Controller) {
		c.serverErrors = enabled
	}
}

// WithSettingsIDKey changes the editing data key that holds the settings
// record id.
func WithSettingsIDKey(key string) Option {
	return func(c *Controller) {
		if key = strings.TrimSpace(key); key != "" {
			c.settingsIDKey = key
		}
	}
}
