package settlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/store"
)

// IncomingTranslator applies a settlement-credit notification pushed
// to us by an SE, translating the SE's reported scale to the account's
// own asset_scale before handing off to the store's incoming-credit
// rules. Idempotency is honored by the store itself, keyed on
// idempotencyKey.
type IncomingTranslator struct {
	Accounts store.AccountStore
	Balances store.BalanceStore
}

// Apply translates amount (reported at seScale) to accountID's asset
// scale and applies it as an incoming settlement credit.
func (t *IncomingTranslator) Apply(ctx context.Context, accountID uuid.UUID, amount uint64, seScale uint8, idempotencyKey string) error {
	acct, err := t.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	translated := translateScale(amount, seScale, acct.AssetScale)
	return t.Balances.ApplyIncomingSettlement(ctx, accountID, translated, idempotencyKey)
}

// translateScale converts amount from fromScale's smallest unit to
// toScale's smallest unit, truncating any sub-unit remainder.
func translateScale(amount uint64, fromScale, toScale uint8) uint64 {
	diff := int(toScale) - int(fromScale)
	switch {
	case diff == 0:
		return amount
	case diff > 0:
		return amount * pow10(uint(diff))
	default:
		return amount / pow10(uint(-diff))
	}
}

func pow10(n uint) uint64 {
	p := uint64(1)
	for i := uint(0); i < n; i++ {
		p *= 10
	}
	return p
}
