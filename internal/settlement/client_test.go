package settlement

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/store"
	"github.com/LeJamon/ilpconnectord/internal/store/memstore"
)

func TestDispatchSucceedsOn2xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(context.Background(), &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 2, SettlementEngineURL: srv.URL,
	}))

	c := &Client{Accounts: ms}
	err := c.Dispatch(context.Background(), store.SettlementTrigger{AccountID: acctID, Amount: 500})
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDispatchPermanentOn4xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(context.Background(), &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 2, SettlementEngineURL: srv.URL,
	}))

	c := &Client{Accounts: ms}
	err := c.Dispatch(context.Background(), store.SettlementTrigger{AccountID: acctID, Amount: 500})
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDispatchRetriesOn5xxThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(context.Background(), &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 2, SettlementEngineURL: srv.URL,
	}))

	c := &Client{Accounts: ms}
	err := c.Dispatch(context.Background(), store.SettlementTrigger{AccountID: acctID, Amount: 500})
	require.NoError(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestDispatchFallsBackToAssetURL(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(context.Background(), &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 2,
	}))

	c := &Client{Accounts: ms, SEURLByAsset: map[string]string{"USD": srv.URL}}
	err := c.Dispatch(context.Background(), store.SettlementTrigger{AccountID: acctID, Amount: 500})
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDispatchFailsWithNoSEConfigured(t *testing.T) {
	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(context.Background(), &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 2,
	}))

	c := &Client{Accounts: ms}
	err := c.Dispatch(context.Background(), store.SettlementTrigger{AccountID: acctID, Amount: 500})
	require.Error(t, err)
}
