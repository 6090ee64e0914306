package settlement

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/store/memstore"
)

func TestIncomingTranslatorScalesUp(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(ctx, &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 4,
	}))

	tr := &IncomingTranslator{Accounts: ms, Balances: ms}
	// SE reports at scale 2 (cents), our account is scale 4.
	require.NoError(t, tr.Apply(ctx, acctID, 150, 2, "key-1"))

	bal, err := ms.GetBalance(ctx, acctID)
	require.NoError(t, err)
	require.EqualValues(t, 15000, bal.PrepaidAmount)
}

func TestIncomingTranslatorIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(ctx, &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 2,
	}))

	tr := &IncomingTranslator{Accounts: ms, Balances: ms}
	require.NoError(t, tr.Apply(ctx, acctID, 100, 2, "dup-key"))
	require.NoError(t, tr.Apply(ctx, acctID, 100, 2, "dup-key"))

	bal, err := ms.GetBalance(ctx, acctID)
	require.NoError(t, err)
	require.EqualValues(t, 100, bal.PrepaidAmount)
}

func TestIncomingTranslatorIdempotentUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New(0)
	acctID := uuid.New()
	require.NoError(t, ms.Create(ctx, &account.Account{
		ID: acctID, Username: "peer1", ILPAddress: "example.peer1",
		AssetCode: "USD", AssetScale: 2,
	}))

	// An SE retry can race an in-flight first attempt; the credit must
	// still land exactly once.
	tr := &IncomingTranslator{Accounts: ms, Balances: ms}
	errs := make(chan error, 16)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tr.Apply(ctx, acctID, 100, 2, "race-key")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	bal, err := ms.GetBalance(ctx, acctID)
	require.NoError(t, err)
	require.EqualValues(t, 100, bal.PrepaidAmount)
}

func TestTranslateScale(t *testing.T) {
	require.EqualValues(t, 100, translateScale(100, 2, 2))
	require.EqualValues(t, 10000, translateScale(100, 2, 4))
	require.EqualValues(t, 1, translateScale(100, 4, 2))
}
