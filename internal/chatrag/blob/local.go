package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rigel-labs/chatrag/internal/model"
)

// StorageTypeLocal identifies the local filesystem backend.
const StorageTypeLocal = "local"

// LocalStore keeps files on the local filesystem under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the storage directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

var _ ByteStore = (*LocalStore)(nil)

// Save writes the file as "<hash>_<filename>" inside the storage directory.
func (s *LocalStore) Save(filename string, content []byte) (model.BlobRef, error) {
	hash := ContentHash(content)
	safeName := SafeName(hash, filepath.Base(filename))
	path := filepath.Join(s.dir, safeName)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return model.BlobRef{}, fmt.Errorf("write file: %w", err)
	}

	return model.BlobRef{
		StorageType: StorageTypeLocal,
		Location:    path,
		Filename:    filepath.Base(filename),
		SafeName:    safeName,
		Size:        int64(len(content)),
		UploadedAt:  time.Now(),
	}, nil
}

// Load reads the file back from disk.
func (s *LocalStore) Load(ref model.BlobRef) ([]byte, error) {
	content, err := os.ReadFile(ref.Location)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return content, err
}

// Delete removes the file from disk.
func (s *LocalStore) Delete(ref model.BlobRef) error {
	err := os.Remove(ref.Location)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}
