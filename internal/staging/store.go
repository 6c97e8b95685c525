// Package staging buffers large or streamed request bodies outside the edge
// request lifecycle: a TTL-bounded store keyed by request id, SigV4 request
// signing against the staged body, and a compress-and-upload path to object
// storage.
package staging

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for keys with no live staged entry.
var ErrNotFound = errors.New("staged entry not found")

// Entry is one buffered request body. Entries are owned by the store; once
// written, only an explicit body replacement mutates them.
type Entry struct {
	Data      []byte    `json:"data"`
	Size      int64     `json:"size"`
	IsStream  bool      `json:"is_stream,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Model     string    `json:"model,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the staged-entry backend, injected into the service so the
// in-memory default can be swapped for Redis without touching callers.
type Store interface {
	// Put stores or overwrites the entry for a key.
	Put(ctx context.Context, id string, entry *Entry) error

	// Get returns the live entry for a key, or ErrNotFound. Reads do not
	// extend the TTL.
	Get(ctx context.Context, id string) (*Entry, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, id string) error
}
