package store

import (
	"context"

	"github.com/google/uuid"
)

// RouteEntry is one entry of a routing table snapshot.
// Static entries are admin-set at Priority 0; dynamic (CCP-learned)
// entries carry the distance the advertising peer reported.
type RouteEntry struct {
	Prefix      string
	NextHop     uuid.UUID
	Distance    int
	Static      bool
	InsertOrder uint64 // tie-breaker: earliest insertion wins among equal distance
}

// RoutingTable is an immutable snapshot the router and CCP services
// read without locking; it is swapped atomically by RouterStore.
type RoutingTable struct {
	Entries []RouteEntry
}

// RouterStore exposes the routing table as an immutable, atomically
// swapped snapshot, and accepts static-route upserts.
type RouterStore interface {
	Snapshot(ctx context.Context) (*RoutingTable, error)
	UpsertStaticRoute(ctx context.Context, prefix string, nextHop uuid.UUID) error
	RemoveStaticRoute(ctx context.Context, prefix string) error

	// ApplyDynamicRoutes atomically merges CCP-learned additions and
	// withdrawals into the table and returns the new snapshot.
	ApplyDynamicRoutes(ctx context.Context, peer uuid.UUID, add []RouteEntry, withdrawPrefixes []string) (*RoutingTable, error)

	// WithdrawPeer removes every dynamic route whose next hop is peer,
	// used when a CCP session dies.
	WithdrawPeer(ctx context.Context, peer uuid.UUID) (*RoutingTable, error)
}
