// Package account holds the Account and Balance value types shared by
// every service in the pipeline, and the capability-free parts of the
// connector's data model.
package account

import (
	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
)

// RoutingRelation classifies the business relationship of a peer
// account, which governs CCP acceptance policy and router forwarding
// rules.
type RoutingRelation int

const (
	// RelationParent is an upstream connector that assigns us our address.
	RelationParent RoutingRelation = iota
	// RelationPeer is a same-tier connector we exchange routes with bilaterally.
	RelationPeer
	// RelationChild is a downstream node we assign an address to via ILDCP.
	RelationChild
	// RelationNonRoutingAccount never sends or receives CCP route updates.
	RelationNonRoutingAccount
)

func (r RoutingRelation) String() string {
	switch r {
	case RelationParent:
		return "parent"
	case RelationPeer:
		return "peer"
	case RelationChild:
		return "child"
	case RelationNonRoutingAccount:
		return "non_routing"
	default:
		return "unknown"
	}
}

// Account is the per-account record every service reads. Balances are
// not embedded here: they live in BalanceStore and are read/written
// atomically by the balance service, never copied into a long-lived
// Account snapshot that a concurrent mutation could stale out.
type Account struct {
	ID       uuid.UUID
	Username string

	ILPAddress string
	AssetCode  string
	AssetScale uint8

	MaxPacketAmount *uint64

	MinBalance      *int64
	SettleThreshold *int64
	SettleTo        *int64

	IncomingToken string
	OutgoingToken string

	PeerURL             string
	SettlementEngineURL string

	RoutingRelation RoutingRelation
	SendRoutes      bool
	ReceiveRoutes   bool

	RoundTripTime uint64 // milliseconds, used by the validator's expiry headroom calc

	AmountPerMinuteLimit  *uint64
	PacketsPerMinuteLimit *uint64

	// Reconciled records whether this account's balance state has been
	// confirmed eventually-consistent with its peer's store;
	// reconciliation is eventual, not synchronous with creation.
	Reconciled bool
}

// EffectiveMaxPacketAmount returns the account's max packet amount, or
// math.MaxUint64 if unset (no limit configured).
func (a *Account) EffectiveMaxPacketAmount() uint64 {
	if a.MaxPacketAmount == nil {
		return ^uint64(0)
	}
	return *a.MaxPacketAmount
}

// EffectiveMinBalance returns the account's configured min balance, or
// the most negative possible value if unset (no floor configured).
func (a *Account) EffectiveMinBalance() int64 {
	if a.MinBalance == nil {
		return minInt64
	}
	return *a.MinBalance
}

const minInt64 = -1 << 63

// Address parses the account's ILPAddress field.
func (a *Account) Address() (ilpaddr.Address, error) {
	return ilpaddr.Parse(a.ILPAddress)
}

// MustAddress parses the account's ILPAddress field, panicking on a
// malformed address. Every account admitted through the store's Create
// path must already carry a well-formed address, so this is used at
// points where a parse failure indicates data corruption rather than
// untrusted input.
func (a *Account) MustAddress() ilpaddr.Address {
	return ilpaddr.MustParse(a.ILPAddress)
}

// SettlementEnabled reports whether both settle_threshold and settle_to
// are configured such that crossing the threshold should trigger a
// settlement.
func (a *Account) SettlementEnabled() bool {
	return a.SettleThreshold != nil && a.SettleTo != nil && *a.SettleThreshold > *a.SettleTo
}
