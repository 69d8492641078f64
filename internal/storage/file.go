package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the slot in a local JSON file shaped as an object
// with a single key, e.g. {"todoflow_tasks": [...]}.
type FileStore struct {
	path string
	key  string
}

func NewFileStore(path, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{
		path: path,
		key:  key,
	}
}

func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err = json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	return doc[s.key], nil
}

func (s *FileStore) Save(_ context.Context, data []byte) error {
	doc := map[string]json.RawMessage{
		s.key: data,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}

	// Write-then-rename keeps the file either fully old or fully new
	// if the process dies mid-write.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".todoflow-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(b)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err = os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
