package memstore

import (
	"context"
	"time"

	"github.com/LeJamon/ilpconnectord/internal/store"
)

type idempotentEntry struct {
	response []byte
	storedAt time.Time
}

func (s *Store) getIdempotentLocked(key string) ([]byte, error) {
	entry, ok := s.idempotency.Get(key)
	if !ok {
		return nil, store.ErrNotFound
	}
	if time.Since(entry.storedAt) > store.IdempotencyTTL {
		s.idempotency.Remove(key)
		return nil, store.ErrNotFound
	}
	return entry.response, nil
}

func (s *Store) putIdempotentLocked(key string, response []byte) {
	if _, ok := s.idempotency.Get(key); ok {
		return // first write wins
	}
	s.idempotency.Add(key, idempotentEntry{response: response, storedAt: time.Now()})
}

// Get implements store.IdempotencyStore.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	return s.getIdempotentLocked(key)
}

// Put implements store.IdempotencyStore.
func (s *Store) Put(_ context.Context, key string, response []byte) error {
	s.putIdempotentLocked(key, response)
	return nil
}
