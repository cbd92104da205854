package repository

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "garagy/internal/errors"
)

// BlobStore holds uploaded images and returns the URL they are served at.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// DiskBlobStore writes blobs under Dir; the router serves Dir at /uploads/.
type DiskBlobStore struct {
	Dir     string
	BaseURL string
}

func NewDiskBlobStore(dir, publicBaseURL string) *DiskBlobStore {
	return &DiskBlobStore{Dir: dir, BaseURL: strings.TrimSuffix(publicBaseURL, "/")}
}

// Save stores data at name, a slash separated relative path such as
// "detection/<garage>/<id>.png".
func (s *DiskBlobStore) Save(_ context.Context, name string, data []byte) (string, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", apperrors.New(apperrors.CodeInvalidInput, "invalid blob name %q", name)
	}
	full := filepath.Join(s.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.CodeRemoteIO, err, "create upload directory")
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", apperrors.Wrap(apperrors.CodeRemoteIO, err, "write upload")
	}
	return s.BaseURL + "/uploads/" + clean, nil
}
