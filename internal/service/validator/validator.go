// Package validator implements expiry, fulfillment-hash, and
// max-packet-amount checks at the boundary of the incoming and outgoing
// chains.
package validator

import (
	"context"
	"time"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
)

// SchedulingSlack is subtracted from the Prepare's expiry when computing
// the outgoing deadline, leaving headroom for this hop's own
// processing.
const SchedulingSlack = 500 * time.Millisecond

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time

// Incoming returns an IncomingMiddleware that rejects expired or
// over-limit Prepares before calling next. nodeAddress is our own
// address, used as Reject.TriggeredBy.
func Incoming(nodeAddress ilpaddr.Address, clock Clock) service.IncomingMiddleware {
	if clock == nil {
		clock = time.Now
	}
	return func(next service.IncomingService) service.IncomingService {
		return service.IncomingHandler(func(ctx context.Context, req *service.Request) (*service.Response, error) {
			p := req.Prepare
			if !p.ExpiresAt.After(clock()) {
				return service.Reject(service.CodeBadRequest, nodeAddress, "prepare has already expired"), nil
			}
			if p.Amount > req.From.EffectiveMaxPacketAmount() {
				return service.Reject(service.CodeInvalidAmount, nodeAddress, "amount exceeds max_packet_amount"), nil
			}
			return next.Handle(ctx, req)
		})
	}
}

// Outgoing returns an OutgoingMiddleware that recomputes expires_at with
// RTT headroom before forwarding, runs next under that deadline, and
// checks the reply's Fulfill against the execution condition.
func Outgoing(nodeAddress ilpaddr.Address, clock Clock) service.OutgoingMiddleware {
	if clock == nil {
		clock = time.Now
	}
	return func(next service.OutgoingService) service.OutgoingService {
		return service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
			now := clock()
			rtt := time.Duration(req.To.RoundTripTime) * time.Millisecond
			headroomDeadline := now.Add(rtt).Add(SchedulingSlack)
			deadline := req.Prepare.ExpiresAt
			if headroomDeadline.Before(deadline) {
				deadline = headroomDeadline
			}
			if !deadline.After(now) {
				return service.Reject(service.CodeTransferTimedOut, nodeAddress, "insufficient expiry headroom for next hop"), nil
			}
			req.Prepare.SetExpiresAt(deadline)

			hopCtx, cancel := context.WithDeadline(ctx, deadline)
			defer cancel()

			resp, err := next.Handle(hopCtx, req)
			if err != nil {
				return nil, err
			}
			if resp.IsFulfill() {
				if !resp.Fulfill.Satisfies(req.Prepare.ExecutionCondition) {
					return service.Reject(service.CodeInvalidPeerResponse, nodeAddress, "peer returned a fulfillment that does not satisfy the execution condition"), nil
				}
			}
			return resp, nil
		})
	}
}
