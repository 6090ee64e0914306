package adminapi

import (
	"io"
	"net/http"
)

type incomingSettlementBody struct {
	Amount         uint64 `json:"amount"`
	Scale          uint8  `json:"scale"`
	IdempotencyKey string `json:"idempotency_key"`
}

// incomingSettlement is the SE-facing credit endpoint: our
// settlement engine calls this when it has observed a credit for
// accountID. Idempotency is honored by the store keyed on
// idempotency_key.
func (s *Server) incomingSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	var body incomingSettlementBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed settlement body")
		return
	}
	if err := s.IncomingSettler.Apply(r.Context(), id, body.Amount, body.Scale, body.IdempotencyKey); err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// incomingMessage relays an opaque SE-to-SE message: a caller playing
// the role of the peer's connector hands us a message destined for our
// local settlement engine's counterpart logic. This core does not
// model the ILP peer-protocol encapsulation SEs otherwise use for
// bilateral comms, so as a documented simplification we relay the raw
// bytes directly to the target account's configured settlement engine
// and return its reply.
func (s *Server) incomingMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	msg, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read message body")
		return
	}
	defer r.Body.Close()

	reply, err := s.Settlement.SendMessage(r.Context(), id, msg)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(reply)
}
