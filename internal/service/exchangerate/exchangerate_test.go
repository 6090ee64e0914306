package exchangerate

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
	"github.com/LeJamon/ilpconnectord/internal/store/memstore"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	"github.com/LeJamon/ilpconnectord/internal/wire/oer"
)

var nodeAddr = ilpaddr.MustParse("g.connector")

func TestOutgoingConvertsAmountAtParity(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	require.NoError(t, ms.SetRates(ctx, map[string]float64{store.Key("ABC", "ABC"): 1}))

	var seenAmount uint64
	terminal := service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
		seenAmount = req.Prepare.Amount
		return service.Fulfilled(&wire.Fulfill{}), nil
	})
	svc := Outgoing(ms, nodeAddr)(terminal)

	req := &service.OutgoingRequest{
		From:    &account.Account{AssetCode: "ABC", AssetScale: 6},
		To:      &account.Account{AssetCode: "ABC", AssetScale: 6},
		Prepare: &wire.Prepare{Amount: 500},
	}
	_, err := svc.Handle(ctx, req)
	require.NoError(t, err)
	require.EqualValues(t, 500, seenAmount)
}

func TestOutgoingRejectsUnknownRate(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)

	terminal := service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
		t.Fatal("terminal should not be called")
		return nil, nil
	})
	svc := Outgoing(ms, nodeAddr)(terminal)

	req := &service.OutgoingRequest{
		From:    &account.Account{AssetCode: "ETH", AssetScale: 6},
		To:      &account.Account{AssetCode: "XRP", AssetScale: 6},
		Prepare: &wire.Prepare{Amount: 500},
	}
	resp, err := svc.Handle(ctx, req)
	require.NoError(t, err)
	require.True(t, resp.IsReject())
	require.Equal(t, service.CodeUnreachable, resp.Reject.CodeString())
}

func TestOutgoingRejectsZeroAmountFromPrecisionLoss(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	require.NoError(t, ms.SetRates(ctx, map[string]float64{store.Key("ABC", "XYZ"): 0.0001}))

	terminal := service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
		t.Fatal("terminal should not be called")
		return nil, nil
	})
	svc := Outgoing(ms, nodeAddr)(terminal)

	req := &service.OutgoingRequest{
		From:    &account.Account{AssetCode: "ABC", AssetScale: 2},
		To:      &account.Account{AssetCode: "XYZ", AssetScale: 2},
		Prepare: &wire.Prepare{Amount: 1},
	}
	resp, err := svc.Handle(ctx, req)
	require.NoError(t, err)
	require.True(t, resp.IsReject())
	require.Equal(t, service.CodeApplication, resp.Reject.CodeString())
}

func TestOutgoingRejectsOverflowWithAmountPair(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	require.NoError(t, ms.SetRates(ctx, map[string]float64{store.Key("ABC", "XYZ"): 1e10}))

	terminal := service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
		t.Fatal("terminal should not be called")
		return nil, nil
	})
	svc := Outgoing(ms, nodeAddr)(terminal)

	req := &service.OutgoingRequest{
		From:    &account.Account{AssetCode: "ABC", AssetScale: 2},
		To:      &account.Account{AssetCode: "XYZ", AssetScale: 2},
		Prepare: &wire.Prepare{Amount: math.MaxUint64 / 2},
	}
	resp, err := svc.Handle(ctx, req)
	require.NoError(t, err)
	require.True(t, resp.IsReject())
	require.Equal(t, service.CodeAmountTooLarge, resp.Reject.CodeString())

	// Data is receivedAmount ++ maximumAmount, both u64 big-endian.
	require.Len(t, resp.Reject.Data, 16)
	received, err := oer.DecodeUint64(resp.Reject.Data[:8])
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64/2), received)
	maximum, err := oer.DecodeUint64(resp.Reject.Data[8:])
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), maximum)
}

func TestOutgoingMonotonic(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	require.NoError(t, ms.SetRates(ctx, map[string]float64{store.Key("ABC", "ABC"): 1.5}))
	require.NoError(t, ms.SetSpread(ctx, 0.01))

	var amounts []uint64
	terminal := service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
		amounts = append(amounts, req.Prepare.Amount)
		return service.Fulfilled(&wire.Fulfill{}), nil
	})
	svc := Outgoing(ms, nodeAddr)(terminal)

	for _, in := range []uint64{100, 200, 300} {
		req := &service.OutgoingRequest{
			From:    &account.Account{AssetCode: "ABC", AssetScale: 6},
			To:      &account.Account{AssetCode: "ABC", AssetScale: 6},
			Prepare: &wire.Prepare{Amount: in},
		}
		_, err := svc.Handle(ctx, req)
		require.NoError(t, err)
	}
	require.Less(t, amounts[0], amounts[1])
	require.Less(t, amounts[1], amounts[2])
}
