// Package settlement implements the HTTP contract between this node
// and its settlement engines: outgoing settlement dispatch, incoming
// settlement-credit translation, and opaque SE-to-SE message relay.
package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

// MaxRetries caps the exponential-backoff retry loop for outgoing
// settlement dispatch; past it the settlement is given up on and
// refunded.
const MaxRetries = 5

type outgoingSettlementBody struct {
	Amount         uint64 `json:"amount"`
	Scale          uint8  `json:"scale"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Client dispatches outgoing settlements and opaque SE-to-SE messages
// over HTTP. It implements balance.SettlementDispatcher.
type Client struct {
	HTTP *http.Client

	Accounts store.AccountStore

	// SEURLByAsset is the per-asset_code settlement-engine URL used
	// when an account has no SettlementEngineURL of its own.
	SEURLByAsset map[string]string

	// DefaultURL is the engine used when neither the account nor its
	// asset code has a URL configured.
	DefaultURL string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) seURL(a *account.Account) string {
	if a.SettlementEngineURL != "" {
		return a.SettlementEngineURL
	}
	if url, ok := c.SEURLByAsset[a.AssetCode]; ok {
		return url
	}
	return c.DefaultURL
}

// Dispatch implements balance.SettlementDispatcher: it POSTs the
// settlement to the account's SE under a single idempotency key held
// across retries. A 2xx is success; a 4xx is a permanent failure; a
// 5xx, timeout, or network error is retried with exponential backoff
// up to MaxRetries before giving up.
func (c *Client) Dispatch(ctx context.Context, trigger store.SettlementTrigger) error {
	acct, err := c.Accounts.GetByID(ctx, trigger.AccountID)
	if err != nil {
		return err
	}
	url := c.seURL(acct)
	if url == "" {
		return fmt.Errorf("settlement: no settlement engine configured for account %s", acct.ID)
	}

	payload, err := json.Marshal(outgoingSettlementBody{
		Amount:         trigger.Amount,
		Scale:          acct.AssetScale,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/accounts/%s/settlements", url, acct.ID)

	op := func() error {
		status, _, err := c.post(ctx, endpoint, payload)
		if err != nil {
			return err
		}
		switch {
		case status >= 200 && status < 300:
			return nil
		case status >= 400 && status < 500:
			return backoff.Permanent(fmt.Errorf("settlement: engine rejected settlement with status %d", status))
		default:
			return fmt.Errorf("settlement: engine returned status %d", status)
		}
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), MaxRetries)
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

// SendMessage relays opaque bytes to accountID's settlement engine and
// returns its opaque reply, for engines that need bilateral comms
// (e.g. payment-channel protocols).
func (c *Client) SendMessage(ctx context.Context, accountID uuid.UUID, msg []byte) ([]byte, error) {
	acct, err := c.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	url := c.seURL(acct)
	if url == "" {
		return nil, fmt.Errorf("settlement: no settlement engine configured for account %s", acct.ID)
	}
	endpoint := fmt.Sprintf("%s/accounts/%s/messages", url, acct.ID)

	status, respBody, err := c.post(ctx, endpoint, msg)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("settlement: message endpoint returned status %d", status)
	}
	return respBody, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}
