package memstore

import (
	"context"

	"github.com/LeJamon/ilpconnectord/internal/store"
)

func (s *Store) RateSnapshot(_ context.Context) (*store.RateTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rates := make(map[string]float64, len(s.rates.Rates))
	for k, v := range s.rates.Rates {
		rates[k] = v
	}
	return &store.RateTable{Rates: rates, Spread: s.rates.Spread}, nil
}

func (s *Store) SetRates(_ context.Context, rates map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range rates {
		s.rates.Rates[k] = v
	}
	return nil
}

func (s *Store) SetSpread(_ context.Context, spread float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates.Spread = spread
	return nil
}
