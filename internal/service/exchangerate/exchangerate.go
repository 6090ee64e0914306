// Package exchangerate applies the bilateral rate and
// spread to a forwarded Prepare's amount.
//
// This runs as outgoing-chain middleware because the conversion's
// target scale is the next hop's asset, which only exists once the
// router has resolved req.To.
package exchangerate

import (
	"context"
	"math"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	"github.com/LeJamon/ilpconnectord/internal/wire/oer"
)

// Outgoing returns an OutgoingMiddleware that rewrites req.Prepare's
// amount to the converted outgoing amount before calling next.
func Outgoing(rates store.RateStore, nodeAddress ilpaddr.Address) service.OutgoingMiddleware {
	return func(next service.OutgoingService) service.OutgoingService {
		return service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
			table, err := rates.RateSnapshot(ctx)
			if err != nil {
				return nil, err
			}

			rate, ok := table.Rates[store.Key(req.From.AssetCode, req.To.AssetCode)]
			if !ok {
				return service.Reject(service.CodeUnreachable, nodeAddress, "no exchange rate for asset pair"), nil
			}

			outAmount, overflowed := convert(req.Prepare.Amount, rate, table.Spread, int(req.To.AssetScale)-int(req.From.AssetScale))
			if overflowed {
				r := &wire.Reject{TriggeredBy: nodeAddress, Message: "converted amount exceeds the maximum transferable amount"}
				r.SetCode(service.CodeAmountTooLarge)
				// F08 data carries the amount that arrived followed by
				// the maximum, both u64 BE, so the sender can size its
				// next attempt.
				data := make([]byte, 0, 16)
				data = oer.EncodeUint64(data, req.Prepare.Amount)
				data = oer.EncodeUint64(data, math.MaxUint64)
				r.Data = data
				return service.Rejected(r), nil
			}
			if outAmount == 0 {
				return service.Reject(service.CodeApplication, nodeAddress, "exchange rate precision loss produced a zero amount"), nil
			}

			req.Prepare.SetAmount(outAmount)
			return next.Handle(ctx, req)
		})
	}
}

// convert computes floor(inAmount * rate * (1-spread) * 10^scaleDiff),
// reporting overflow against uint64's range rather than silently
// wrapping.
func convert(inAmount uint64, rate float64, spread float64, scaleDiff int) (out uint64, overflowed bool) {
	factor := rate * (1 - spread) * math.Pow(10, float64(scaleDiff))
	product := float64(inAmount) * factor
	if product < 0 {
		return 0, false
	}
	if product > float64(math.MaxUint64) {
		return 0, true
	}
	return uint64(product), false
}
