package cli

import (
	"context"
	"net/http"

	"github.com/LeJamon/ilpconnectord/internal/adminapi"
	"github.com/LeJamon/ilpconnectord/internal/adminapi/rpcbridge"
	"github.com/LeJamon/ilpconnectord/internal/config"
	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/service/balance"
	"github.com/LeJamon/ilpconnectord/internal/service/ccp"
	"github.com/LeJamon/ilpconnectord/internal/service/exchangerate"
	"github.com/LeJamon/ilpconnectord/internal/service/ildcp"
	"github.com/LeJamon/ilpconnectord/internal/service/ratelimit"
	"github.com/LeJamon/ilpconnectord/internal/service/router"
	"github.com/LeJamon/ilpconnectord/internal/service/streamreceiver"
	"github.com/LeJamon/ilpconnectord/internal/service/validator"
	"github.com/LeJamon/ilpconnectord/internal/settlement"
	"github.com/LeJamon/ilpconnectord/internal/store/memstore"
)

// node is the fully wired connector: the store, the head of the packet
// pipeline, the CCP broadcaster, and the externally reachable surfaces.
type node struct {
	store       *memstore.Store
	incoming    service.IncomingService
	broadcaster *ccp.Broadcaster
	admin       *adminapi.Server
	bridge      *rpcbridge.Server
}

// buildNode constructs every component from the configuration.
//
// transport is the outgoing terminal that puts a Prepare on the wire to
// the next hop. Transport protocols are outside this core's scope, so
// a nil transport is replaced by a stub that rejects every packet as
// unreachable, keeping the pipeline usable end-to-end in tests and in
// a transport-less deployment.
//
// The pipeline order is
//
//	incoming: validator -> rate-limit -> balance -> router (pivot)
//	outgoing: validator -> exchange-rate -> balance -> transport
//
// with the router pivoting peer-scoped and own-address destinations to
// CCP, ILDCP, and the STREAM receiver before the outgoing half.
func buildNode(cfg *config.Config, transport service.OutgoingService) *node {
	nodeAddress := ilpaddr.MustParse(cfg.Node.Address)
	ms := memstore.New(0)

	settlementClient := &settlement.Client{
		Accounts:     ms,
		SEURLByAsset: cfg.Settlement.URLByAsset,
		DefaultURL:   cfg.Settlement.DefaultURL,
	}
	if cfg.Settlement.HTTPTimeout > 0 {
		settlementClient.HTTP = &http.Client{Timeout: cfg.Settlement.HTTPTimeout}
	}
	incomingSettler := &settlement.IncomingTranslator{Accounts: ms, Balances: ms}

	if transport == nil {
		transport = service.OutgoingHandler(func(ctx context.Context, req *service.OutgoingRequest) (*service.Response, error) {
			return service.Reject(service.CodeUnreachable, nodeAddress, "no outgoing transport configured"), nil
		})
	}

	outgoing := service.ComposeOutgoing(
		transport,
		validator.Outgoing(nodeAddress, nil),
		exchangerate.Outgoing(ms, nodeAddress),
		balance.Outgoing(ms, settlementClient),
	)

	pivot := &router.Router{
		NodeAddress: nodeAddress,
		Routes:      ms,
		Accounts:    ms,
		CCP:         &ccp.Service{NodeAddress: nodeAddress, Routes: ms, Sessions: ms},
		ILDCP:       &ildcp.Service{NodeAddress: nodeAddress, Accounts: ms, Routes: ms},
		Local:       &streamreceiver.Service{NodeAddress: nodeAddress, NodeSecret: cfg.Secret(), Accounts: ms},
		Next:        outgoing,
	}
	incoming := service.ComposeIncoming(
		pivot,
		validator.Incoming(nodeAddress, nil),
		ratelimit.Incoming(ratelimit.New(nil), nodeAddress),
		balance.Incoming(ms, nodeAddress),
	)

	interval := cfg.CCP.BroadcastInterval
	if interval <= 0 {
		interval = ccp.DefaultInterval
	}

	// Route updates are control-plane traffic: they go straight to the
	// transport terminal, not through the payment middleware (exchange
	// rate and balance have no meaning for a zero-amount
	// peer.route.update Prepare).
	broadcaster := &ccp.Broadcaster{
		NodeAddress: nodeAddress,
		Interval:    interval,
		Routes:      ms,
		Accounts:    ms,
		Sessions:    ms,
		Next:        transport,
	}

	admin := &adminapi.Server{
		NodeAddress:     nodeAddress,
		NodeSecret:      cfg.Secret(),
		AdminToken:      cfg.AdminAPI.AuthToken,
		Accounts:        ms,
		Balances:        ms,
		Rates:           ms,
		Routes:          ms,
		Settlement:      settlementClient,
		IncomingSettler: incomingSettler,
		Incoming:        incoming,
	}

	return &node{
		store:       ms,
		incoming:    incoming,
		broadcaster: broadcaster,
		admin:       admin,
		bridge:      &rpcbridge.Server{Translator: incomingSettler},
	}
}
