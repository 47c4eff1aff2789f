package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// document is the on-disk layout: two entries, the user profile kept as a
// serialized string so it can be read back even when its contents no longer
// parse as a profile.
type document struct {
	User  *string `json:"user,omitempty"`
	Token string  `json:"token,omitempty"`
}

// FileStore persists the session document as a single JSON file. Both
// entries land in one write-temp-then-rename, so the pair commits atomically.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) ([]byte, string, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read session file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, "", fmt.Errorf("parse session file: %w", err)
	}

	var userJSON []byte
	if doc.User != nil {
		userJSON = []byte(*doc.User)
	}
	return userJSON, doc.Token, nil
}

func (f *FileStore) Save(_ context.Context, userJSON []byte, token string) error {
	user := string(userJSON)
	return f.write(document{User: &user, Token: token})
}

func (f *FileStore) ClearUser(ctx context.Context) error {
	_, token, err := f.Load(ctx)
	if err != nil {
		// The whole document is unreadable; drop it entirely.
		return f.Clear(ctx)
	}
	return f.write(document{Token: token})
}

func (f *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (f *FileStore) write(doc document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("commit session file: %w", err)
	}
	return nil
}
