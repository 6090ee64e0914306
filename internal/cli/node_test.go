package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/config"
	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/wire"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuildNodeWiresEveryComponent(t *testing.T) {
	n := buildNode(testConfig(t), nil)

	require.NotNil(t, n.store)
	require.NotNil(t, n.incoming)
	require.NotNil(t, n.broadcaster)
	require.NotNil(t, n.admin)
	require.NotNil(t, n.admin.Incoming)
	require.NotNil(t, n.bridge)
}

func TestBuiltPipelineRejectsUnreachableDestination(t *testing.T) {
	n := buildNode(testConfig(t), nil)

	from := &account.Account{ILPAddress: "g.connector.alice", AssetCode: "USD", AssetScale: 2, RoutingRelation: account.RelationPeer}
	require.NoError(t, n.store.Create(context.Background(), from))

	req := &service.Request{
		From: from,
		Prepare: &wire.Prepare{
			Amount:      100,
			ExpiresAt:   time.Now().Add(time.Minute),
			Destination: ilpaddr.MustParse("g.nowhere.bob"),
		},
	}
	resp, err := n.incoming.Handle(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Reject)
	require.Equal(t, service.CodeUnreachable, resp.Reject.CodeString())
}

func TestBuildNodeUsesSuppliedTransport(t *testing.T) {
	var reached bool
	transport := service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
		reached = true
		return service.Fulfilled(&wire.Fulfill{}), nil
	})
	n := buildNode(testConfig(t), transport)

	resp, err := n.broadcaster.Next.Handle(context.Background(), &service.OutgoingRequest{})
	require.NoError(t, err)
	require.True(t, resp.IsFulfill())
	require.True(t, reached)
}
