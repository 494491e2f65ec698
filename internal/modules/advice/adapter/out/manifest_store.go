package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"brewlog/internal/modules/advice/domain"
	adviceout "brewlog/internal/modules/advice/port/out"
	apperrors "brewlog/internal/platform/errors"
)

// FileManifestStore reads the advisor plugin manifest. A relative binary path
// is resolved against the manifest's directory.
type FileManifestStore struct {
	path string
}

func NewFileManifestStore(path string) adviceout.ManifestStore {
	return &FileManifestStore{path: path}
}

func (s *FileManifestStore) Load(_ context.Context) (domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Manifest{}, fmt.Errorf("advisor manifest %s: %w", s.path, apperrors.ErrNotFound)
		}
		return domain.Manifest{}, fmt.Errorf("read advisor manifest: %w", err)
	}
	manifest := domain.Manifest{}
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifest); err != nil {
		return domain.Manifest{}, fmt.Errorf("decode advisor manifest: %w", err)
	}
	if manifest.Binary != "" && !filepath.IsAbs(manifest.Binary) {
		manifest.Binary = filepath.Clean(filepath.Join(filepath.Dir(s.path), manifest.Binary))
	}
	if err := manifest.Validate(); err != nil {
		return domain.Manifest{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return manifest, nil
}
