package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("session")

// LocalStore persists the session user in a bbolt file, the way a browser
// keeps it in local storage.
type LocalStore struct {
	db *bolt.DB
}

// OpenLocalStore opens or creates the store at path.
func OpenLocalStore(path string) (*LocalStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("session: create store dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("session: open store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session: init store: %w", err)
	}
	return &LocalStore{db: db}, nil
}

// Close releases the file lock.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) UpdateSession(ctx context.Context, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	user, err := UserFrom(data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(StorageKey), payload)
	})
}

// Current reads the stored user.
func (s *LocalStore) Current() (User, bool, error) {
	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(bucketName).Get([]byte(StorageKey)); value != nil {
			payload = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil || payload == nil {
		return User{}, false, err
	}
	var user User
	if err := json.Unmarshal(payload, &user); err != nil {
		return User{}, false, fmt.Errorf("session: decode user: %w", err)
	}
	return user, true, nil
}

// Clear removes the stored user.
func (s *LocalStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(StorageKey))
	})
}
