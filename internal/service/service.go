// Package service defines the request/response contract every handler in
// the pipeline shares, and the helpers used to compose handlers into a
// chain.
package service

import (
	"context"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/wire"
)

// Request is what an IncomingService receives: the account the Prepare
// arrived on, and the Prepare itself.
type Request struct {
	From    *account.Account
	Prepare *wire.Prepare
}

// OutgoingRequest is what an OutgoingService receives: the account the
// Prepare arrived on, the account it is about to be forwarded to, and
// the (possibly rewritten) Prepare.
type OutgoingRequest struct {
	From    *account.Account
	To      *account.Account
	Prepare *wire.Prepare
}

// Response is exactly one of Fulfill or Reject, never both, never
// neither. Handlers that return a nil error must return a non-nil
// Response satisfying that.
type Response struct {
	Fulfill *wire.Fulfill
	Reject  *wire.Reject
}

// Fulfilled wraps a Fulfill packet as a Response.
func Fulfilled(f *wire.Fulfill) *Response {
	return &Response{Fulfill: f}
}

// Rejected wraps a Reject packet as a Response.
func Rejected(r *wire.Reject) *Response {
	return &Response{Reject: r}
}

// IsFulfill reports whether the response carries a Fulfill.
func (r *Response) IsFulfill() bool {
	return r != nil && r.Fulfill != nil
}

// IsReject reports whether the response carries a Reject.
func (r *Response) IsReject() bool {
	return r != nil && r.Reject != nil
}

// IncomingService handles a Prepare arriving from an account.
// Implementations never return an error for a domain
// failure; those are materialized as a Reject response. Error is
// reserved for context cancellation and programmer-error conditions
// that should abort the task.
type IncomingService interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// OutgoingService handles a Prepare about to be forwarded to an
// account.
type OutgoingService interface {
	Handle(ctx context.Context, req *OutgoingRequest) (*Response, error)
}

// IncomingHandler adapts a plain function to an IncomingService, in the
// manner of http.HandlerFunc.
type IncomingHandler func(ctx context.Context, req *Request) (*Response, error)

// Handle implements IncomingService.
func (f IncomingHandler) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// OutgoingHandler adapts a plain function to an OutgoingService.
type OutgoingHandler func(ctx context.Context, req *OutgoingRequest) (*Response, error)

// Handle implements OutgoingService.
func (f OutgoingHandler) Handle(ctx context.Context, req *OutgoingRequest) (*Response, error) {
	return f(ctx, req)
}

// IncomingMiddleware wraps an IncomingService with additional behavior,
// producing another IncomingService that may short-circuit (return
// without calling next) or forward (mutate the request, call next).
type IncomingMiddleware func(next IncomingService) IncomingService

// OutgoingMiddleware wraps an OutgoingService.
type OutgoingMiddleware func(next OutgoingService) OutgoingService

// ComposeIncoming builds the incoming-side chain. mw is applied
// outermost-first: ComposeIncoming(router, rateLimit, balance) calls
// rateLimit, then balance, then router.
func ComposeIncoming(terminal IncomingService, mw ...IncomingMiddleware) IncomingService {
	svc := terminal
	for i := len(mw) - 1; i >= 0; i-- {
		svc = mw[i](svc)
	}
	return svc
}

// ComposeOutgoing builds the outgoing-side chain the same way.
func ComposeOutgoing(terminal OutgoingService, mw ...OutgoingMiddleware) OutgoingService {
	svc := terminal
	for i := len(mw) - 1; i >= 0; i-- {
		svc = mw[i](svc)
	}
	return svc
}
