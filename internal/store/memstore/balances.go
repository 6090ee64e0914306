package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

func (s *Store) ApplyPrepare(_ context.Context, accountID uuid.UUID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountID.String()
	a, ok := s.accountsByID[key]
	if !ok {
		return store.ErrNotFound
	}
	bal := s.balances[key]

	delta := -int64(amount)
	if bal.WouldViolateMinBalance(delta, a.EffectiveMinBalance()) {
		return store.ErrInsufficientBalance
	}
	bal.Balance += delta
	s.balances[key] = bal
	return nil
}

func (s *Store) ApplyFulfill(_ context.Context, accountID uuid.UUID, amount uint64) (*store.SettlementTrigger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountID.String()
	a, ok := s.accountsByID[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	bal := s.balances[key]
	bal.Balance += int64(amount)

	if a.SettlementEnabled() && bal.Balance >= *a.SettleThreshold {
		settleAmount := bal.Balance - *a.SettleTo
		bal.Balance = *a.SettleTo
		s.balances[key] = bal
		return &store.SettlementTrigger{AccountID: accountID, Amount: uint64(settleAmount)}, nil
	}

	s.balances[key] = bal
	return nil, nil
}

func (s *Store) ApplyReject(_ context.Context, accountID uuid.UUID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountID.String()
	if _, ok := s.accountsByID[key]; !ok {
		return store.ErrNotFound
	}
	bal := s.balances[key]
	bal.Balance += int64(amount)
	s.balances[key] = bal
	return nil
}

func (s *Store) ApplyIncomingSettlement(_ context.Context, accountID uuid.UUID, amount uint64, idempotencyKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The key check and the balance mutation share one critical
	// section so two concurrent credits with the same key cannot both
	// pass the check and both apply.
	if idempotencyKey != "" {
		if _, err := s.getIdempotentLocked(idempotencyKey); err == nil {
			return nil // already applied; honor idempotency
		}
	}

	key := accountID.String()
	if _, ok := s.accountsByID[key]; !ok {
		return store.ErrNotFound
	}
	bal := s.balances[key]
	amt := int64(amount)

	switch {
	case bal.Balance >= 0:
		bal.PrepaidAmount += amt
	case -bal.Balance >= amt:
		bal.Balance += amt
	default:
		remainder := amt + bal.Balance // bal.Balance is negative here
		bal.PrepaidAmount += remainder
		bal.Balance = 0
	}
	s.balances[key] = bal

	if idempotencyKey != "" {
		s.putIdempotentLocked(idempotencyKey, nil)
	}
	return nil
}

func (s *Store) RefundFailedSettlement(_ context.Context, accountID uuid.UUID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountID.String()
	if _, ok := s.accountsByID[key]; !ok {
		return store.ErrNotFound
	}
	bal := s.balances[key]
	bal.Balance += int64(amount)
	s.balances[key] = bal
	return nil
}

func (s *Store) GetBalance(_ context.Context, accountID uuid.UUID) (account.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := accountID.String()
	if _, ok := s.accountsByID[key]; !ok {
		return account.Balance{}, store.ErrNotFound
	}
	return s.balances[key], nil
}
