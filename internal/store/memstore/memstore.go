// Package memstore is a process-local, in-memory implementation of the
// store.Store capability set. It is a conformance fixture for tests and
// the no-backend-configured path of cmd/ilpnoded, not a production
// persistence layer: the node treats the store as an external
// collaborator behind the capability interfaces.
package memstore

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

// Store is the in-memory backend. Every method takes the single mutex
// for its section; only per-account atomicity is required, but a
// single mutex is simpler and this implementation is a fixture, not the
// production path.
type Store struct {
	mu sync.RWMutex

	accountsByID       map[string]*account.Account
	accountsByUsername map[string]*account.Account
	accountsByHTTPTok  map[string]*account.Account
	accountsByBTPTok   map[string]*account.Account

	balances map[string]account.Balance

	staticRoutes  map[string]store.RouteEntry
	dynamicRoutes map[string]store.RouteEntry
	insertCounter atomic.Uint64

	rates RateSnapshot

	ccpSessions map[string]*store.PeerEpochState

	idempotency *lru.Cache[string, idempotentEntry]
}

// RateSnapshot is the mutable-under-lock form of store.RateTable.
type RateSnapshot struct {
	Rates  map[string]float64
	Spread float64
}

// New constructs an empty in-memory store. idempotencyCacheSize bounds
// the LRU used for settlement idempotency keys; 0 selects a sane default.
func New(idempotencyCacheSize int) *Store {
	if idempotencyCacheSize <= 0 {
		idempotencyCacheSize = 4096
	}
	cache, err := lru.New[string, idempotentEntry](idempotencyCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which we just guarded.
		panic(err)
	}
	return &Store{
		accountsByID:        make(map[string]*account.Account),
		accountsByUsername:  make(map[string]*account.Account),
		accountsByHTTPTok:   make(map[string]*account.Account),
		accountsByBTPTok:    make(map[string]*account.Account),
		balances:            make(map[string]account.Balance),
		staticRoutes:        make(map[string]store.RouteEntry),
		dynamicRoutes:       make(map[string]store.RouteEntry),
		rates:               RateSnapshot{Rates: make(map[string]float64)},
		ccpSessions:         make(map[string]*store.PeerEpochState),
		idempotency:         cache,
	}
}

var _ store.Store = (*Store)(nil)
