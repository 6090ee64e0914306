// Package ildcp responds to a child node's peer.config request with
// its assigned address, asset scale, and asset code, persisting the
// assignment.
package ildcp

import (
	"context"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	ildcpcodec "github.com/LeJamon/ilpconnectord/internal/wire/ildcp"
)

// Service answers peer.config requests. The router only ever hands it
// requests from accounts whose routing_relation is Child.
type Service struct {
	NodeAddress ilpaddr.Address
	Accounts    store.AccountStore
	Routes      store.RouterStore
}

// Handle implements service.IncomingService.
func (s *Service) Handle(ctx context.Context, req *service.Request) (*service.Response, error) {
	child := req.From

	addr, err := s.NodeAddress.Child(child.Username)
	if err != nil {
		return service.Reject(service.CodeBadRequest, s.NodeAddress, "could not derive a child address from the account username"), nil
	}

	if child.ILPAddress != addr.String() {
		child.ILPAddress = addr.String()
		if err := s.Accounts.Update(ctx, child); err != nil {
			return nil, err
		}
		if err := s.Routes.UpsertStaticRoute(ctx, addr.String(), child.ID); err != nil {
			return nil, err
		}
	}

	data := ildcpcodec.Encode(&ildcpcodec.Response{
		ClientAddress: addr.String(),
		AssetScale:    child.AssetScale,
		AssetCode:     child.AssetCode,
	})
	return service.Fulfilled(wire.NewFulfillment([32]byte{}, data)), nil
}
