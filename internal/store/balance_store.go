package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/account"
)

// SettlementTrigger describes a settlement the balance service must
// dispatch to C12 as the side effect of an atomic Fulfill application.
type SettlementTrigger struct {
	AccountID uuid.UUID
	Amount    uint64 // in the account's smallest asset unit
}

// BalanceStore performs the pipeline's atomic balance mutations.
// Every method is atomic with respect to the account's min_balance
// invariant and, for the settlement-facing methods, idempotent per
// (account, idempotency key) for 24h.
type BalanceStore interface {
	// ApplyPrepare debits amount from account's balance, enforcing
	// min_balance. Returns ErrInsufficientBalance on violation.
	ApplyPrepare(ctx context.Context, accountID uuid.UUID, amount uint64) error

	// ApplyFulfill credits amount to account's balance and, if the
	// resulting balance crosses settle_threshold, returns a non-nil
	// SettlementTrigger after atomically resetting balance to settle_to.
	ApplyFulfill(ctx context.Context, accountID uuid.UUID, amount uint64) (*SettlementTrigger, error)

	// ApplyReject restores amount to account's balance, undoing a prior
	// ApplyPrepare for a Prepare that was not fulfilled.
	ApplyReject(ctx context.Context, accountID uuid.UUID, amount uint64) error

	// ApplyIncomingSettlement applies an SE-reported credit: refund
	// balance toward zero, spill any excess to prepaid_amount. idempotencyKey is honored for 24h: a repeat
	// call with the same key is a no-op that returns the same result.
	ApplyIncomingSettlement(ctx context.Context, accountID uuid.UUID, amount uint64, idempotencyKey string) error

	// RefundFailedSettlement reverts a settlement that was deducted via
	// ApplyFulfill's settle_to reset but whose outgoing SE call
	// ultimately failed.
	RefundFailedSettlement(ctx context.Context, accountID uuid.UUID, amount uint64) error

	// GetBalance returns the current balance pair for account.
	GetBalance(ctx context.Context, accountID uuid.UUID) (account.Balance, error)
}
