// Package ccp implements CCP route announcement/withdrawal,
// per-peer epoch bookkeeping, and broadcast-interval propagation.
package ccp

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pierrec/lz4"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	"github.com/LeJamon/ilpconnectord/internal/wire/ccpcodec"
)

// Service handles peer.route.update and peer.route.control Prepares.
// The router only ever hands it requests from Peer or Parent
// accounts, so acceptance policy is enforced there, not here.
type Service struct {
	NodeAddress ilpaddr.Address
	Routes      store.RouterStore
	Sessions    store.CcpStore
}

// Handle implements service.IncomingService.
func (s *Service) Handle(ctx context.Context, req *service.Request) (*service.Response, error) {
	dest := req.Prepare.Destination

	switch {
	case dest.HasPrefix("peer.route.control"):
		return service.Fulfilled(wire.NewFulfillment([32]byte{}, nil)), nil

	case dest.HasPrefix("peer.route.update"):
		return s.handleUpdate(ctx, req)

	default:
		return service.Reject(service.CodeUnreachable, s.NodeAddress, "unknown ccp destination"), nil
	}
}

// lz4Magic is the LZ4 frame magic number, used to recognize updates
// the broadcaster compressed before embedding as Prepare data.
var lz4Magic = []byte{0x04, 0x22, 0x4D, 0x18}

func (s *Service) handleUpdate(ctx context.Context, req *service.Request) (*service.Response, error) {
	payload := req.Prepare.Data
	if bytes.HasPrefix(payload, lz4Magic) {
		decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return service.Reject(service.CodeBadRequest, s.NodeAddress, "malformed compressed route update"), nil
		}
		payload = decompressed
	}

	update, err := ccpcodec.DecodeUpdate(payload)
	if err != nil {
		return service.Reject(service.CodeBadRequest, s.NodeAddress, "malformed route update"), nil
	}

	secret := []byte(req.From.OutgoingToken)
	accepted := make([]store.RouteEntry, 0, len(update.NewRoutes))
	for _, route := range update.NewRoutes {
		if ccpcodec.ContainsAddress(route.Path, s.NodeAddress.String()) {
			continue // loop: this route has already traversed us
		}
		if !ccpcodec.VerifyAuth(secret, route) {
			continue // bad auth, silently dropped
		}
		accepted = append(accepted, store.RouteEntry{
			Prefix:   route.Prefix,
			NextHop:  req.From.ID,
			Distance: len(route.Path),
		})
	}

	if _, err := s.Routes.ApplyDynamicRoutes(ctx, req.From.ID, accepted, update.WithdrawnPrefixes); err != nil {
		return nil, err
	}

	state, err := s.Sessions.GetPeerEpochState(ctx, req.From.ID)
	if err != nil {
		if err != store.ErrNotFound {
			return nil, err
		}
		state = &store.PeerEpochState{PeerID: req.From.ID}
	}
	state.RemoteEpoch = update.ToEpochIndex
	if err := s.Sessions.SavePeerEpochState(ctx, state); err != nil {
		return nil, err
	}

	return service.Fulfilled(wire.NewFulfillment([32]byte{}, nil)), nil
}

// PeerDied withdraws every dynamic route learned from peerID and
// drops its epoch session.
func (s *Service) PeerDied(ctx context.Context, peerID uuid.UUID) error {
	if _, err := s.Routes.WithdrawPeer(ctx, peerID); err != nil {
		return err
	}
	return s.Sessions.DeletePeerEpochState(ctx, peerID)
}
