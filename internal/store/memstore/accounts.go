package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accountsByID[id.String()]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accountsByUsername[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetByIncomingHTTPToken(_ context.Context, token string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accountsByHTTPTok[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetByIncomingBTPToken(_ context.Context, token string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accountsByBTPTok[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListAll(_ context.Context) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*account.Account, 0, len(s.accountsByID))
	for _, a := range s.accountsByID {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if _, exists := s.accountsByID[a.ID.String()]; exists {
		return store.ErrAlreadyExists
	}
	if _, exists := s.accountsByUsername[a.Username]; exists {
		return store.ErrAlreadyExists
	}

	cp := *a
	s.indexAccountLocked(&cp)
	s.balances[a.ID.String()] = account.Balance{}
	return nil
}

func (s *Store) Update(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accountsByID[a.ID.String()]
	if !ok {
		return store.ErrNotFound
	}
	s.unindexAccountLocked(existing)
	cp := *a
	s.indexAccountLocked(&cp)
	return nil
}

func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accountsByID[id.String()]
	if !ok {
		return store.ErrNotFound
	}
	s.unindexAccountLocked(existing)
	delete(s.balances, id.String())
	return nil
}

func (s *Store) indexAccountLocked(a *account.Account) {
	s.accountsByID[a.ID.String()] = a
	s.accountsByUsername[a.Username] = a
	if a.IncomingToken != "" {
		s.accountsByHTTPTok[a.IncomingToken] = a
		s.accountsByBTPTok[a.IncomingToken] = a
	}
}

func (s *Store) unindexAccountLocked(a *account.Account) {
	delete(s.accountsByID, a.ID.String())
	delete(s.accountsByUsername, a.Username)
	if a.IncomingToken != "" {
		delete(s.accountsByHTTPTok, a.IncomingToken)
		delete(s.accountsByBTPTok, a.IncomingToken)
	}
}
