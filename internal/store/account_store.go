package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/account"
)

// AccountStore resolves accounts by the identifiers the incoming
// transport and the router need: UUID, username, and the opaque
// bearer tokens carried by HTTP/BTP auth.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByUsername(ctx context.Context, username string) (*account.Account, error)
	GetByIncomingHTTPToken(ctx context.Context, token string) (*account.Account, error)
	GetByIncomingBTPToken(ctx context.Context, token string) (*account.Account, error)
	ListAll(ctx context.Context) ([]*account.Account, error)

	Create(ctx context.Context, a *account.Account) error
	Update(ctx context.Context, a *account.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}
