// Package adminapi implements the HTTP admin surface the node needs
// to be externally reachable: account CRUD, balance reads, rate/route
// settings, the SPSP payment-pointer lookup and payments endpoint,
// and the settlement-engine-facing settlement/message endpoints.
//
// It is the thin transport wrapper the core needs, not a network
// protocol the core itself defines: plain REST-over-JSON resource
// paths (POST .../settlements, POST .../messages) rather than a
// method registry. internal/adminapi/rpcbridge exposes the
// settlement-credit push path over typed gRPC alongside it.
package adminapi

import (
	"net/http"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/settlement"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

// Server holds every store and service the admin surface reads from or
// writes to. Handlers are stateless; all state lives behind the store
// interfaces.
type Server struct {
	NodeAddress ilpaddr.Address
	NodeSecret  []byte

	// AdminToken is the bearer token the admin-only endpoints require.
	// Empty disables auth entirely, for tests and deployments where
	// the listener itself is trusted.
	AdminToken string

	Accounts store.AccountStore
	Balances store.BalanceStore
	Rates    store.RateStore
	Routes   store.RouterStore

	// Settlement relays outgoing SE-to-SE messages for the messages
	// passthrough endpoint.
	Settlement *settlement.Client
	// IncomingSettler applies SE-reported settlement credits pushed to
	// the settlements endpoint.
	IncomingSettler *settlement.IncomingTranslator

	// Incoming is the head of the packet pipeline, used by the
	// payments endpoint to inject a locally initiated SPSP send as if
	// it had arrived on the paying account.
	Incoming service.IncomingService
}

// Handler builds the full admin route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /accounts", s.requireAdmin(s.createAccount))
	mux.HandleFunc("GET /accounts", s.requireAdmin(s.listAccounts))
	mux.HandleFunc("GET /accounts/{id}", s.requireAdminOrOwner(s.getAccount))
	mux.HandleFunc("PUT /accounts/{id}", s.requireAdminOrOwner(s.updateAccount))
	mux.HandleFunc("PUT /accounts/{id}/settings", s.requireAdminOrOwner(s.updateAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.requireAdmin(s.deleteAccount))
	mux.HandleFunc("GET /accounts/{id}/balance", s.requireAdminOrOwner(s.getBalance))
	mux.HandleFunc("POST /accounts/{id}/payments", s.requireOwner(s.sendPayment))

	mux.HandleFunc("PUT /rates", s.requireAdmin(s.putRates))
	mux.HandleFunc("GET /routes", s.requireAdmin(s.listRoutes))
	mux.HandleFunc("PUT /routes/static", s.requireAdmin(s.putStaticRoutes))
	mux.HandleFunc("PUT /routes/{prefix}", s.requireAdmin(s.putRoute))
	mux.HandleFunc("DELETE /routes/{prefix}", s.requireAdmin(s.deleteRoute))

	mux.HandleFunc("GET /spsp/{username}", s.spsp)
	mux.HandleFunc("GET /accounts/{id}/spsp", s.spspByID)
	mux.HandleFunc("GET /.well-known/pay", s.wellKnownPay)

	mux.HandleFunc("POST /accounts/{id}/settlements", s.incomingSettlement)
	mux.HandleFunc("POST /accounts/{id}/messages", s.incomingMessage)

	return mux
}
