// Package session keeps the signed-in user current after a profile update.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formpage/pkg/editing"
)

// StorageKey names the persisted user record.
const StorageKey = "MFFMS_USER"

// ErrNoUser is returned when the update payload carries no user name.
var ErrNoUser = errors.New("session: payload has no tenDangNhap")

// User is the persisted session identity.
type User struct {
	TenDangNhap string `json:"tenDangNhap"`
	Hash        string `json:"hash"`
}

// UserFrom extracts the session identity from a profile update response.
func UserFrom(data map[string]any) (User, error) {
	user := User{
		TenDangNhap: strings.TrimSpace(editing.Text(data["tenDangNhap"])),
		Hash:        editing.Text(data["hash"]),
	}
	if user.TenDangNhap == "" {
		return User{}, ErrNoUser
	}
	return user, nil
}

// Updater receives the data of a successful profile update.
type Updater interface {
	UpdateSession(ctx context.Context, data map[string]any) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(ctx context.Context, data map[string]any) error

func (f UpdaterFunc) UpdateSession(ctx context.Context, data map[string]any) error {
	return f(ctx, data)
}

// Global holds the signed-in user in memory.
type Global struct {
	mu   sync.RWMutex
	user *User
}

// LogIn makes user the current session.
func (g *Global) LogIn(user User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = &user
}

// LogOut clears the current session.
func (g *Global) LogOut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = nil
}

// Current returns the signed-in user, if any.
func (g *Global) Current() (User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return User{}, false
	}
	return *g.user, true
}

func (g *Global) UpdateSession(_ context.Context, data map[string]any) error {
	user, err := UserFrom(data)
	if err != nil {
		return err
	}
	g.LogIn(user)
	return nil
}

// Chain runs every updater in order and joins their errors.
type Chain []Updater

func (c Chain) UpdateSession(ctx context.Context, data map[string]any) error {
	var errs []error
	for idx, updater := range c {
		if updater == nil {
			continue
		}
		if err := updater.UpdateSession(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("session: updater %d: %w", idx, err))
		}
	}
	return errors.Join(errs...)
}
