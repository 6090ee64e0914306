package rpcbridge

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/settlement"
	"github.com/LeJamon/ilpconnectord/internal/store/memstore"
)

func TestNotifySettlementAppliesCredit(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(ctx, &account.Account{
		ID: acctID, Username: "dave", ILPAddress: "g.connector.dave", AssetCode: "USD", AssetScale: 2,
	}))

	srv := &Server{Translator: &settlement.IncomingTranslator{Accounts: ms, Balances: ms}}

	in, err := structpb.NewStruct(map[string]interface{}{
		"account_id":      acctID.String(),
		"amount":          float64(500),
		"scale":           float64(2),
		"idempotency_key": "key-1",
	})
	require.NoError(t, err)

	_, err = srv.NotifySettlement(ctx, in)
	require.NoError(t, err)

	bal, err := ms.GetBalance(ctx, acctID)
	require.NoError(t, err)
	require.EqualValues(t, 500, bal.PrepaidAmount)
}

func TestNotifySettlementRejectsBadAccountID(t *testing.T) {
	srv := &Server{Translator: &settlement.IncomingTranslator{}}
	in, err := structpb.NewStruct(map[string]interface{}{"account_id": "not-a-uuid"})
	require.NoError(t, err)

	_, err = srv.NotifySettlement(context.Background(), in)
	require.Error(t, err)
}

func TestRegisterDoesNotPanic(t *testing.T) {
	gs := grpc.NewServer()
	Register(gs, &Server{})
}
