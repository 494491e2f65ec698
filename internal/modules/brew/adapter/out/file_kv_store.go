package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	brewout "brewlog/internal/modules/brew/port/out"
	apperrors "brewlog/internal/platform/errors"
)

// FileKVStore keeps one file per key inside dir. The collection key maps to
// brewlog_sessions.json so the file can be read or edited by hand.
type FileKVStore struct {
	dir string
}

func NewFileKVStore(dir string) brewout.KeyValueStore {
	return &FileKVStore{dir: dir}
}

func (s *FileKVStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

func (s *FileKVStore) Get(_ context.Context, key string) ([]byte, error) {
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("read key %s: %w", key, err)
	}
	return payload, nil
}

// Set writes through a temp file and rename so readers never see a torn value.
func (s *FileKVStore) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace key %s: %w", key, err)
	}
	return nil
}
