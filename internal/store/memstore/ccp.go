package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/store"
)

func (s *Store) GetPeerEpochState(_ context.Context, peerID uuid.UUID) (*store.PeerEpochState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.ccpSessions[peerID.String()]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *Store) SavePeerEpochState(_ context.Context, state *store.PeerEpochState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.ccpSessions[state.PeerID.String()] = &cp
	return nil
}

func (s *Store) DeletePeerEpochState(_ context.Context, peerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ccpSessions, peerID.String())
	return nil
}

func (s *Store) ListPeerEpochStates(_ context.Context) ([]*store.PeerEpochState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*store.PeerEpochState, 0, len(s.ccpSessions))
	for _, st := range s.ccpSessions {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}
