// Package blob stores the raw bytes of uploaded documents.
package blob

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rigel-labs/chatrag/internal/model"
	storageopts "github.com/rigel-labs/chatrag/pkg/options/storage"
)

// ErrNotFound is returned when a stored file cannot be located.
var ErrNotFound = errors.New("stored file not found")

// ByteStore persists uploaded file content.
type ByteStore interface {
	// Save writes the file and returns a reference describing where it
	// landed. Saving the same content twice is idempotent.
	Save(filename string, content []byte) (model.BlobRef, error)

	// Load returns the content for a previously saved file.
	Load(ref model.BlobRef) ([]byte, error)

	// Delete removes a previously saved file.
	Delete(ref model.BlobRef) error
}

// ContentHash returns the short content hash used for file IDs and
// storage names.
func ContentHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])[:10]
}

// SafeName builds the collision-resistant storage name for a file.
func SafeName(hash, filename string) string {
	return hash + "_" + filename
}

// New creates a ByteStore for the configured backend.
func New(opts *storageopts.Options) (ByteStore, error) {
	switch opts.Backend {
	case storageopts.BackendLocal:
		return NewLocalStore(opts.Dir)
	case storageopts.BackendSQLite:
		return NewSQLiteStore(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", opts.Backend)
	}
}
