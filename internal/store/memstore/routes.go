package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/store"
)

func (s *Store) Snapshot(_ context.Context) (*store.RoutingTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *Store) snapshotLocked() *store.RoutingTable {
	entries := make([]store.RouteEntry, 0, len(s.staticRoutes)+len(s.dynamicRoutes))
	for _, e := range s.staticRoutes {
		entries = append(entries, e)
	}
	for _, e := range s.dynamicRoutes {
		entries = append(entries, e)
	}
	return &store.RoutingTable{Entries: entries}
}

func (s *Store) UpsertStaticRoute(_ context.Context, prefix string, nextHop uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staticRoutes[prefix] = store.RouteEntry{
		Prefix:      prefix,
		NextHop:     nextHop,
		Distance:    0,
		Static:      true,
		InsertOrder: s.insertCounter.Add(1),
	}
	return nil
}

func (s *Store) RemoveStaticRoute(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staticRoutes, prefix)
	return nil
}

func (s *Store) ApplyDynamicRoutes(_ context.Context, peer uuid.UUID, add []store.RouteEntry, withdrawPrefixes []string) (*store.RoutingTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, prefix := range withdrawPrefixes {
		if existing, ok := s.dynamicRoutes[prefix]; ok && existing.NextHop == peer {
			delete(s.dynamicRoutes, prefix)
		}
	}
	for _, e := range add {
		e.NextHop = peer
		e.Static = false
		e.InsertOrder = s.insertCounter.Add(1)
		s.dynamicRoutes[e.Prefix] = e
	}
	return s.snapshotLocked(), nil
}

func (s *Store) WithdrawPeer(_ context.Context, peer uuid.UUID) (*store.RoutingTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for prefix, e := range s.dynamicRoutes {
		if e.NextHop == peer {
			delete(s.dynamicRoutes, prefix)
		}
	}
	return s.snapshotLocked(), nil
}
