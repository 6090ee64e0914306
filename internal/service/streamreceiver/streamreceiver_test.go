package streamreceiver

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store/memstore"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	"github.com/LeJamon/ilpconnectord/internal/wire/streamcodec"
)

var nodeAddr = ilpaddr.MustParse("g.connector")
var nodeSecret = []byte("super-secret")

func newReceiverAccount(t *testing.T, ms *memstore.Store) *account.Account {
	t.Helper()
	a := &account.Account{ID: uuid.New(), Username: "dest", ILPAddress: "g.connector.dest", AssetCode: "USD", AssetScale: 2}
	require.NoError(t, ms.Create(context.Background(), a))
	return a
}

func TestHandleFulfillsMatchingStreamPrepare(t *testing.T) {
	ms := memstore.New(0)
	a := newReceiverAccount(t, ms)

	destination, sharedSecretB64 := DeriveDestination(nodeAddr, nodeSecret, a.ID)
	sharedSecret, err := base64.StdEncoding.DecodeString(sharedSecretB64)
	require.NoError(t, err)

	payload, err := streamcodec.Encode(&streamcodec.Packet{
		SequenceID: 7,
		Frames:     []streamcodec.Frame{{Type: streamcodec.FrameStreamMoney, AmountToReceive: 100}},
	})
	require.NoError(t, err)

	expiresAt := time.Now().Add(time.Minute)
	preimage := deriveFulfillment(sharedSecret, 100, payload, expiresAt)
	condition := sha256.Sum256(preimage[:])

	prepare := &wire.Prepare{
		Amount:             100,
		ExpiresAt:          expiresAt,
		ExecutionCondition: condition,
		Destination:        ilpaddr.MustParse(destination),
		Data:               payload,
	}

	svc := &Service{NodeAddress: nodeAddr, NodeSecret: nodeSecret, Accounts: ms}
	resp, err := svc.Handle(context.Background(), &service.Request{From: a, Prepare: prepare})
	require.NoError(t, err)
	require.NotNil(t, resp.Fulfill)
}

func TestHandleRejectsUnderfundedAmount(t *testing.T) {
	ms := memstore.New(0)
	a := newReceiverAccount(t, ms)

	destination, sharedSecretB64 := DeriveDestination(nodeAddr, nodeSecret, a.ID)
	sharedSecret, err := base64.StdEncoding.DecodeString(sharedSecretB64)
	require.NoError(t, err)

	payload, err := streamcodec.Encode(&streamcodec.Packet{
		SequenceID: 1,
		Frames:     []streamcodec.Frame{{Type: streamcodec.FrameStreamMoney, AmountToReceive: 500}},
	})
	require.NoError(t, err)

	expiresAt := time.Now().Add(time.Minute)
	preimage := deriveFulfillment(sharedSecret, 100, payload, expiresAt)
	condition := sha256.Sum256(preimage[:])

	prepare := &wire.Prepare{
		Amount:             100,
		ExpiresAt:          expiresAt,
		ExecutionCondition: condition,
		Destination:        ilpaddr.MustParse(destination),
		Data:               payload,
	}

	svc := &Service{NodeAddress: nodeAddr, NodeSecret: nodeSecret, Accounts: ms}
	resp, err := svc.Handle(context.Background(), &service.Request{From: a, Prepare: prepare})
	require.NoError(t, err)
	require.NotNil(t, resp.Reject)
}

func TestHandleRejectsUnknownDestination(t *testing.T) {
	ms := memstore.New(0)
	a := newReceiverAccount(t, ms)

	prepare := &wire.Prepare{
		Amount:      100,
		ExpiresAt:   time.Now().Add(time.Minute),
		Destination: ilpaddr.MustParse("g.connector.not-a-real-tag"),
	}

	svc := &Service{NodeAddress: nodeAddr, NodeSecret: nodeSecret, Accounts: ms}
	resp, err := svc.Handle(context.Background(), &service.Request{From: a, Prepare: prepare})
	require.NoError(t, err)
	require.NotNil(t, resp.Reject)
}
