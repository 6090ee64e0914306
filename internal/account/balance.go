package account

// Balance is the per-account pair of signed integers: the accrued
// obligation (Balance) and unspent settlement credit (PrepaidAmount),
// both in the account's asset's smallest unit.
type Balance struct {
	Balance       int64
	PrepaidAmount int64
}

// Effective returns Balance + PrepaidAmount, the quantity the
// min-balance invariant is checked against.
func (b Balance) Effective() int64 {
	return b.Balance + b.PrepaidAmount
}

// WouldViolateMinBalance reports whether applying delta to Balance
// would push the effective balance below minBalance.
func (b Balance) WouldViolateMinBalance(delta int64, minBalance int64) bool {
	return b.Balance+delta+b.PrepaidAmount < minBalance
}
