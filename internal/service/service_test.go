package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/wire"
)

func named(order *[]string, name string) IncomingMiddleware {
	return func(next IncomingService) IncomingService {
		return IncomingHandler(func(ctx context.Context, req *Request) (*Response, error) {
			*order = append(*order, name)
			return next.Handle(ctx, req)
		})
	}
}

func TestComposeIncomingRunsOutermostFirst(t *testing.T) {
	var order []string
	terminal := IncomingHandler(func(ctx context.Context, req *Request) (*Response, error) {
		order = append(order, "terminal")
		return Fulfilled(&wire.Fulfill{}), nil
	})

	svc := ComposeIncoming(terminal, named(&order, "a"), named(&order, "b"))
	resp, err := svc.Handle(context.Background(), &Request{})
	require.NoError(t, err)
	require.True(t, resp.IsFulfill())
	require.Equal(t, []string{"a", "b", "terminal"}, order)
}

func TestMiddlewareShortCircuitSkipsNext(t *testing.T) {
	addr := ilpaddr.MustParse("g.connector")
	shortCircuit := func(next IncomingService) IncomingService {
		return IncomingHandler(func(ctx context.Context, req *Request) (*Response, error) {
			return Reject(CodeUnreachable, addr, "stop here"), nil
		})
	}
	terminal := IncomingHandler(func(ctx context.Context, req *Request) (*Response, error) {
		t.Fatal("terminal should not be called")
		return nil, nil
	})

	svc := ComposeIncoming(terminal, shortCircuit)
	resp, err := svc.Handle(context.Background(), &Request{})
	require.NoError(t, err)
	require.True(t, resp.IsReject())
	require.Equal(t, CodeUnreachable, resp.Reject.CodeString())
}

func TestResponsePredicates(t *testing.T) {
	require.False(t, (*Response)(nil).IsFulfill())
	require.False(t, (*Response)(nil).IsReject())
	require.True(t, Fulfilled(&wire.Fulfill{}).IsFulfill())
	require.True(t, Rejected(&wire.Reject{}).IsReject())
}
