package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

// AssetStore persists avatar blobs and returns stable references. Delete
// exists so failed profile rebinds can roll the asset back.
type AssetStore interface {
	Save(ctx context.Context, userID string, data []byte, ext string) (ref string, err error)
	Delete(ctx context.Context, ref string) error
	Exists(ref string) bool
}

// LocalStore keeps assets on the local filesystem under a root directory and
// addresses them by URL path.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if root == "" {
		root = "./data/assets"
	}
	if urlPrefix == "" {
		urlPrefix = "/assets"
	}
	if err := os.MkdirAll(filepath.Join(root, "avatars"), 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{
		root:      root,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Save writes the blob to a temp file first and renames it into place so a
// reference never points at a partially written asset.
func (s *LocalStore) Save(ctx context.Context, userID string, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%d_%s%s", userID, time.Now().UnixNano(), uuid.NewString()[:8], ext)
	finalPath := filepath.Join(s.root, "avatars", name)

	tmp, err := os.CreateTemp(filepath.Dir(finalPath), ".upload-*")
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeStorageFailure, "failed to stage asset", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", domain.WrapError(domain.ErrCodeStorageFailure, "failed to write asset", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", domain.WrapError(domain.ErrCodeStorageFailure, "failed to finalize asset", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", domain.WrapError(domain.ErrCodeStorageFailure, "failed to publish asset", err)
	}

	return fmt.Sprintf("%s/avatars/%s", s.urlPrefix, name), nil
}

// Delete removes the asset behind the reference. Unknown references are not
// an error so rollback stays idempotent.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	path, ok := s.pathFor(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return domain.WrapError(domain.ErrCodeStorageFailure, "failed to delete asset", err)
	}
	return nil
}

// Exists reports whether the reference resolves to a stored asset.
func (s *LocalStore) Exists(ref string) bool {
	path, ok := s.pathFor(ref)
	if !ok {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (s *LocalStore) pathFor(ref string) (string, bool) {
	rel, found := strings.CutPrefix(ref, s.urlPrefix+"/")
	if !found || strings.Contains(rel, "..") {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), true
}
