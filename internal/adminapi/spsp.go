package adminapi

import (
	"net/http"

	"github.com/LeJamon/ilpconnectord/internal/account"
	"github.com/LeJamon/ilpconnectord/internal/service/streamreceiver"
	"github.com/LeJamon/ilpconnectord/internal/store"
)

type spspResponse struct {
	DestinationAccount string `json:"destination_account"`
	SharedSecret       string `json:"shared_secret"`
}

// spsp implements the SPSP payment-pointer lookup: given
// an account's username, return the STREAM destination and shared
// secret a sender needs to pay it.
func (s *Server) spsp(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	a, err := s.Accounts.GetByUsername(r.Context(), username)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(w, http.StatusNotFound, "no such payment pointer")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSPSP(w, a)
}

// spspByID serves the same lookup keyed by account id.
func (s *Server) spspByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	a, err := s.Accounts.GetByID(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	s.writeSPSP(w, a)
}

// wellKnownPay serves the payment-pointer root. The receiving account
// is named by the "username" query parameter; a node holding exactly
// one account serves that account when the parameter is absent.
func (s *Server) wellKnownPay(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username != "" {
		a, err := s.Accounts.GetByUsername(r.Context(), username)
		if err != nil {
			writeError(w, http.StatusNotFound, "no such payment pointer")
			return
		}
		s.writeSPSP(w, a)
		return
	}

	accounts, err := s.Accounts.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(accounts) != 1 {
		writeError(w, http.StatusNotFound, "payment pointer requires a username")
		return
	}
	s.writeSPSP(w, accounts[0])
}

func (s *Server) writeSPSP(w http.ResponseWriter, a *account.Account) {
	dest, secret := streamreceiver.DeriveDestination(s.NodeAddress, s.NodeSecret, a.ID)
	writeJSON(w, http.StatusOK, spspResponse{DestinationAccount: dest, SharedSecret: secret})
}
