package ccp

import (
	"bytes"
	"context"
	"time"

	"github.com/pierrec/lz4"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	"github.com/LeJamon/ilpconnectord/internal/wire/ccpcodec"
)

// DefaultInterval is the default route_broadcast_interval.
const DefaultInterval = 30 * time.Second

// compressionThreshold is the encoded update size above which the
// batch is LZ4-compressed before being embedded as Prepare.Data.
const compressionThreshold = 1024

// Broadcaster periodically sends each Peer (and Parent, when
// send_routes) the diff since their last acknowledged epoch.
type Broadcaster struct {
	NodeAddress ilpaddr.Address
	Interval    time.Duration

	Routes   store.RouterStore
	Accounts store.AccountStore
	Sessions store.CcpStore

	// Next delivers the built route update as an outgoing Prepare
	// addressed peer.route.update.
	Next service.OutgoingService
}

// Run broadcasts on Interval until ctx is canceled.
func (b *Broadcaster) Run(ctx context.Context) error {
	interval := b.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := b.BroadcastOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// BroadcastOnce sends one round of route updates to every eligible peer
// concurrently, using errgroup to fan out and collect the first error.
func (b *Broadcaster) BroadcastOnce(ctx context.Context) error {
	accounts, err := b.Accounts.ListAll(ctx)
	if err != nil {
		return err
	}
	table, err := b.Routes.Snapshot(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range accounts {
		a := a
		if !eligibleForBroadcast(a) {
			continue
		}
		g.Go(func() error {
			return b.sendTo(gctx, a, table)
		})
	}
	return g.Wait()
}

func eligibleForBroadcast(a *account.Account) bool {
	if !a.SendRoutes {
		return false
	}
	return a.RoutingRelation == account.RelationPeer || a.RoutingRelation == account.RelationParent
}

func (b *Broadcaster) sendTo(ctx context.Context, peer *account.Account, table *store.RoutingTable) error {
	state, err := b.Sessions.GetPeerEpochState(ctx, peer.ID)
	if err != nil {
		if err != store.ErrNotFound {
			return err
		}
		state = &store.PeerEpochState{PeerID: peer.ID}
	}

	secret := []byte(peer.OutgoingToken)
	newRoutes := make([]ccpcodec.Route, 0, len(table.Entries))
	for _, e := range table.Entries {
		if e.NextHop == peer.ID {
			continue // split horizon: don't advertise a route learned from this peer back to it
		}
		path := []string{b.NodeAddress.String()}
		newRoutes = append(newRoutes, ccpcodec.Route{
			Prefix: e.Prefix,
			Path:   path,
			Auth:   ccpcodec.ComputeAuth(secret, e.Prefix, path),
		})
	}

	fromEpoch := state.LocalEpoch
	state.LocalEpoch++
	update := &ccpcodec.Update{
		FromEpochIndex: fromEpoch,
		ToEpochIndex:   state.LocalEpoch,
		NewRoutes:      newRoutes,
		Speaker:        b.NodeAddress.String(),
	}
	if err := b.Sessions.SavePeerEpochState(ctx, state); err != nil {
		return err
	}

	payload := ccpcodec.EncodeUpdate(update)
	if len(payload) > compressionThreshold {
		var compressed bytes.Buffer
		w := lz4.NewWriter(&compressed)
		if _, err := w.Write(payload); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		payload = compressed.Bytes()
	}

	prepare := &wire.Prepare{
		Destination: ilpaddr.MustParse("peer.route.update"),
		Data:        payload,
		ExpiresAt:   time.Now().Add(b.Interval),
	}
	_, err = b.Next.Handle(ctx, &service.OutgoingRequest{To: peer, Prepare: prepare})
	return err
}
