package staging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryStore is a mutex-based in-memory staged-entry store with a periodic
// TTL sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	logger  *zap.Logger
}

func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
		logger:  logger,
	}
}

func (s *MemoryStore) Put(ctx context.Context, id string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Expired entries are invisible even before the sweep reaps them
	if time.Now().After(entry.ExpiresAt) {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// StartSweeper runs the TTL sweep on the given interval until ctx is
// cancelled. Expired keys are collected under the read lock and removed
// under the write lock, so ingest and reads on unrelated keys never stall
// behind a sweep.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.RLock()
	var expired []string
	for id, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	s.mu.Lock()
	removed := 0
	for _, id := range expired {
		// The key may have been overwritten with a fresh expiry between the
		// two phases; last write wins
		if entry, ok := s.entries[id]; ok && now.After(entry.ExpiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Debug("swept expired staged entries", zap.Int("removed", removed))
	}
}

// Len reports the number of entries currently held, including not yet swept
// expired ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
