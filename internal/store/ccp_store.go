package store

import (
	"context"

	"github.com/google/uuid"
)

// PeerEpochState is the per-peer CCP bookkeeping: our
// view of the peer's table (LocalEpoch) and the peer's acknowledged
// view of ours (RemoteEpoch).
type PeerEpochState struct {
	PeerID      uuid.UUID
	LocalEpoch  uint32
	RemoteEpoch uint32

	// LastSentRoutes/LastReceivedRoutes let the broadcaster compute the
	// diff since the peer's last acknowledged epoch.
	LastSentRoutes     map[string]uint32 // prefix -> epoch last sent at
	LastReceivedRoutes map[string]uint32 // prefix -> epoch last received at
}

// CcpStore persists per-peer CCP session state across broadcast cycles.
type CcpStore interface {
	GetPeerEpochState(ctx context.Context, peerID uuid.UUID) (*PeerEpochState, error)
	SavePeerEpochState(ctx context.Context, state *PeerEpochState) error
	DeletePeerEpochState(ctx context.Context, peerID uuid.UUID) error
	ListPeerEpochStates(ctx context.Context) ([]*PeerEpochState, error)
}
