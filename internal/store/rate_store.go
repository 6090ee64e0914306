package store

import "context"

// RateTable is the current bilateral exchange-rate map plus spread,
// consumed by the exchange-rate service.
type RateTable struct {
	// Rates maps "FROM/TO" asset code pairs to a multiplicative rate.
	Rates  map[string]float64
	Spread float64
}

// RateStore exposes the current exchange-rate table.
type RateStore interface {
	RateSnapshot(ctx context.Context) (*RateTable, error)
	SetRates(ctx context.Context, rates map[string]float64) error
	SetSpread(ctx context.Context, spread float64) error
}

// Key builds the RateTable lookup key for an asset-code pair.
func Key(from, to string) string {
	return from + "/" + to
}
