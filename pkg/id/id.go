// Package id provides identifier generation for requests and resources.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// entropy is shared by all generators; ulid.Monotonic is not safe for
// concurrent use, so reads are serialized.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewULID returns a new ULID string.
// ULIDs are 26 characters, lexicographically sortable by creation time.
func NewULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewRequestID returns an identifier suitable for the X-Request-ID header.
func NewRequestID() string {
	return NewULID()
}
