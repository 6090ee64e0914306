// Package balance implements atomic balance mutation on
// Prepare/Fulfill/Reject and settlement triggering.
//
// The service has two halves, mirroring the two places balance
// accounting sits in the pipeline: Incoming debits the account the
// Prepare arrived on before the packet is routed, and restores that
// debit if the chain ultimately rejects; Outgoing credits the account
// the packet is forwarded to once a Fulfill comes back, and dispatches
// a settlement when the credit crosses the account's settle_threshold.
package balance

import (
	"context"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

// SettlementDispatcher issues the settlement a SettlementTrigger
// describes. Dispatch retries internally; Outgoing
// treats a returned error as a final failure and refunds the credit.
type SettlementDispatcher interface {
	Dispatch(ctx context.Context, trigger store.SettlementTrigger) error
}

// Incoming returns an IncomingMiddleware that debits req.From by the
// Prepare's amount, restoring the debit if the chain rejects.
func Incoming(balances store.BalanceStore, nodeAddress ilpaddr.Address) service.IncomingMiddleware {
	return func(next service.IncomingService) service.IncomingService {
		return service.IncomingHandler(func(ctx context.Context, req *service.Request) (*service.Response, error) {
			amount := req.Prepare.Amount
			if err := balances.ApplyPrepare(ctx, req.From.ID, amount); err != nil {
				if err == store.ErrInsufficientBalance {
					return service.Reject(service.CodeInsufficientLiquidity, nodeAddress, "prepare would violate min_balance"), nil
				}
				return nil, err
			}

			resp, err := next.Handle(ctx, req)
			if err != nil {
				// The chain aborted without producing a Reject; restore the debit
				// so the failed attempt has no lasting balance effect.
				_ = balances.ApplyReject(ctx, req.From.ID, amount)
				return nil, err
			}
			if resp.IsReject() {
				if rerr := balances.ApplyReject(ctx, req.From.ID, amount); rerr != nil {
					return nil, rerr
				}
			}
			return resp, nil
		})
	}
}

// Outgoing returns an OutgoingMiddleware that credits req.To once next
// returns a Fulfill, dispatching a settlement when the credit crosses
// the receiver's settle_threshold.
func Outgoing(balances store.BalanceStore, dispatcher SettlementDispatcher) service.OutgoingMiddleware {
	return func(next service.OutgoingService) service.OutgoingService {
		return service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
			resp, err := next.Handle(ctx, req)
			if err != nil {
				return nil, err
			}
			if !resp.IsFulfill() {
				return resp, nil
			}

			trigger, err := balances.ApplyFulfill(ctx, req.To.ID, req.Prepare.Amount)
			if err != nil {
				return nil, err
			}
			if trigger == nil {
				return resp, nil
			}

			if dispatcher == nil {
				return resp, nil
			}
			if derr := dispatcher.Dispatch(ctx, *trigger); derr != nil {
				_ = balances.RefundFailedSettlement(ctx, trigger.AccountID, trigger.Amount)
			}
			return resp, nil
		})
	}
}
