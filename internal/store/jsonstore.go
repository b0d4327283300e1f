package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore keeps each document as a pretty-printed file under Root
type JSONStore struct {
	Root string // e.g. "data"

	mu sync.Mutex
}

func NewJSONStore(root string) *JSONStore {
	return &JSONStore{Root: root}
}

func (s *JSONStore) Path(doc Document) string {
	return filepath.Join(s.Root, string(doc)+".json")
}

func (s *JSONStore) Exists(doc Document) bool {
	_, err := os.Stat(s.Path(doc))
	return err == nil
}

func (s *JSONStore) Load(ctx context.Context, doc Document, v interface{}) error {
	b, err := s.ReadRaw(doc)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding %s: %w", s.Path(doc), err)
	}
	return nil
}

func (s *JSONStore) Save(ctx context.Context, doc Document, v interface{}) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", doc, err)
	}
	return s.WriteRaw(doc, body)
}

// WriteRaw replaces the document's file via a temporary file and rename
func (s *JSONStore) WriteRaw(doc Document, body []byte) error {
	path := s.Path(doc)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *JSONStore) ReadRaw(doc Document) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.ReadFile(s.Path(doc))
}
