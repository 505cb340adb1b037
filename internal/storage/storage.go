package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Public URL prefixes under which stored images are served.
const (
	PostImagePrefix = "/images/posts/"
	AvatarPrefix    = "/images/avatars/"
)

// BlobStore accepts a filename plus bytes and returns the public path the
// blob is served from. Remove exists so callers can compensate when a
// database commit fails after a successful write.
type BlobStore interface {
	SavePostImage(filename string, data []byte) (string, error)
	SaveAvatar(filename string, data []byte) (string, error)
	Remove(publicPath string) error
}

type localStore struct {
	postsDir   string
	avatarsDir string
}

// NewLocalStore creates the upload directories if needed and returns a
// disk-backed BlobStore.
func NewLocalStore(postsDir, avatarsDir string) (BlobStore, error) {
	for _, dir := range []string{postsDir, avatarsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return &localStore{postsDir: postsDir, avatarsDir: avatarsDir}, nil
}

func (s *localStore) SavePostImage(filename string, data []byte) (string, error) {
	return save(s.postsDir, PostImagePrefix, filename, data)
}

func (s *localStore) SaveAvatar(filename string, data []byte) (string, error) {
	return save(s.avatarsDir, AvatarPrefix, filename, data)
}

func (s *localStore) Remove(publicPath string) error {
	switch {
	case strings.HasPrefix(publicPath, PostImagePrefix):
		return os.Remove(filepath.Join(s.postsDir, strings.TrimPrefix(publicPath, PostImagePrefix)))
	case strings.HasPrefix(publicPath, AvatarPrefix):
		return os.Remove(filepath.Join(s.avatarsDir, strings.TrimPrefix(publicPath, AvatarPrefix)))
	}
	return fmt.Errorf("unknown blob path %s", publicPath)
}

// save writes the blob under a random name, keeping only the original
// extension. Uploaded filenames are untrusted input.
func save(dir, prefix, filename string, data []byte) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return prefix + name, nil
}
