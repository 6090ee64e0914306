// Package router implements longest-prefix match against the
// routing table, next-hop resolution, and the incoming→outgoing
// handoff.
package router

import (
	"context"
	"strings"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

// Router is the pivot of the chain: an IncomingService that resolves a
// next hop and hands the request to an OutgoingService, or short
// circuits to the CCP/ILDCP services for peer.* destinations.
type Router struct {
	NodeAddress ilpaddr.Address

	Routes   store.RouterStore
	Accounts store.AccountStore

	// CCP handles peer.route.* destinations. Nil is treated as
	// Unreachable for those destinations.
	CCP service.IncomingService
	// ILDCP handles peer.config. Nil is treated as Unreachable.
	ILDCP service.IncomingService
	// Local handles destinations under this node's own address
	// (SPSP/STREAM endpoints). Nil is treated as Unreachable.
	Local service.IncomingService

	// Next is the outgoing-side chain a resolved request is handed to.
	Next service.OutgoingService
}

// Handle implements service.IncomingService.
func (r *Router) Handle(ctx context.Context, req *service.Request) (*service.Response, error) {
	dest := req.Prepare.Destination

	if dest.IsPeerScoped() {
		return r.handlePeerScoped(ctx, req, dest)
	}

	if dest.HasPrefix(r.NodeAddress.String()) {
		if r.Local == nil {
			return service.Reject(service.CodeUnreachable, r.NodeAddress, "no local handler for this node's own address space"), nil
		}
		return r.Local.Handle(ctx, req)
	}

	if req.From.RoutingRelation == account.RelationChild && !dest.HasPrefix(req.From.ILPAddress) {
		return service.Reject(service.CodeUnreachable, r.NodeAddress, "child account may only address its own prefix"), nil
	}

	table, err := r.Routes.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	entry := bestRoute(table.Entries, dest.String())
	if entry == nil {
		return service.Reject(service.CodeUnreachable, r.NodeAddress, "no route to destination"), nil
	}

	to, err := r.Accounts.GetByID(ctx, entry.NextHop)
	if err != nil {
		if err == store.ErrNotFound {
			return service.Reject(service.CodeUnreachable, r.NodeAddress, "route next hop has no account"), nil
		}
		return nil, err
	}
	if to.ID == req.From.ID {
		return service.Reject(service.CodeUnreachable, r.NodeAddress, "routing would loop back to the inbound account"), nil
	}

	return r.Next.Handle(ctx, &service.OutgoingRequest{From: req.From, To: to, Prepare: req.Prepare})
}

func (r *Router) handlePeerScoped(ctx context.Context, req *service.Request, dest ilpaddr.Address) (*service.Response, error) {
	switch {
	case dest.HasPrefix("peer.config"):
		if req.From.RoutingRelation != account.RelationChild {
			return service.Reject(service.CodeUnreachable, r.NodeAddress, "peer.config is only served to child accounts"), nil
		}
		if r.ILDCP == nil {
			return service.Reject(service.CodeUnreachable, r.NodeAddress, "ildcp service not configured"), nil
		}
		return r.ILDCP.Handle(ctx, req)

	case dest.HasPrefix("peer.route"):
		if req.From.RoutingRelation != account.RelationPeer && req.From.RoutingRelation != account.RelationParent {
			return service.Reject(service.CodeUnreachable, r.NodeAddress, "route updates are only accepted from peer or parent accounts"), nil
		}
		if r.CCP == nil {
			return service.Reject(service.CodeUnreachable, r.NodeAddress, "ccp service not configured"), nil
		}
		return r.CCP.Handle(ctx, req)

	default:
		return service.Reject(service.CodeUnreachable, r.NodeAddress, "unknown peer-scoped destination"), nil
	}
}

// bestRoute returns the routing table entry with the longest segment
// prefix matching dest, tie-broken by lowest distance then earliest
// insertion order.
func bestRoute(entries []store.RouteEntry, dest string) *store.RouteEntry {
	var best *store.RouteEntry
	bestSegments := -1

	for i := range entries {
		e := &entries[i]
		if !ilpaddr.IsPrefixMatch(dest, e.Prefix) {
			continue
		}
		segments := strings.Count(e.Prefix, ".") + 1

		switch {
		case segments > bestSegments:
			best, bestSegments = e, segments
		case segments == bestSegments:
			if e.Distance < best.Distance {
				best = e
			} else if e.Distance == best.Distance && e.InsertOrder < best.InsertOrder {
				best = e
			}
		}
	}
	return best
}
