package adminapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/service/streamreceiver"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	"github.com/LeJamon/ilpconnectord/internal/wire/streamcodec"
)

// paymentExpiry is how long a locally initiated Prepare stays valid.
const paymentExpiry = 30 * time.Second

type paymentRequest struct {
	// Receiver is either a local username or an SPSP endpoint URL.
	Receiver     string `json:"receiver"`
	SourceAmount uint64 `json:"source_amount"`
}

type paymentResponse struct {
	DeliveredAmount uint64 `json:"delivered_amount"`
}

type paymentRejection struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	TriggeredBy string `json:"triggered_by"`
}

// sendPayment initiates an SPSP send on behalf of the paying account:
// it resolves the receiver's STREAM destination and shared secret,
// builds a Prepare whose condition the receiver can fulfill, and
// injects it at the head of the incoming pipeline as if it had
// arrived on the payer's account. A Fulfill maps to 200 with the
// delivered amount; a Reject maps to 4xx carrying the Reject's code,
// message, and triggered_by.
func (s *Server) sendPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	from, err := s.Accounts.GetByID(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if s.Incoming == nil {
		writeError(w, http.StatusServiceUnavailable, "payment pipeline not configured")
		return
	}

	var body paymentRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed payment body")
		return
	}
	if body.SourceAmount == 0 {
		writeError(w, http.StatusBadRequest, "source_amount must be positive")
		return
	}

	destStr, secretB64, err := s.resolveReceiver(r.Context(), body.Receiver)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dest, err := ilpaddr.Parse(destStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "receiver resolved to a malformed ILP address")
		return
	}
	sharedSecret, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "receiver shared secret is not valid base64")
		return
	}

	data, err := streamcodec.Encode(&streamcodec.Packet{
		SequenceID: 1,
		Frames: []streamcodec.Frame{
			{Type: streamcodec.FrameStreamMoney, StreamID: 1, AmountToReceive: body.SourceAmount},
		},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	expiresAt := time.Now().Add(paymentExpiry)
	prepare := &wire.Prepare{
		Amount:      body.SourceAmount,
		ExpiresAt:   expiresAt,
		Destination: dest,
		Data:        data,
	}
	prepare.ExecutionCondition = streamreceiver.Condition(sharedSecret, body.SourceAmount, data, expiresAt)

	resp, err := s.Incoming.Handle(r.Context(), &service.Request{From: from, Prepare: prepare})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.IsFulfill() {
		writeJSON(w, http.StatusOK, paymentResponse{DeliveredAmount: body.SourceAmount})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, paymentRejection{
		Code:        resp.Reject.CodeString(),
		Message:     resp.Reject.Message,
		TriggeredBy: resp.Reject.TriggeredBy.String(),
	})
}

// resolveReceiver turns the payment's receiver field into a STREAM
// destination and base64 shared secret: an http(s) URL is queried as
// a remote SPSP endpoint; anything else is treated as a local
// username and resolved against this node's own receiver derivation.
func (s *Server) resolveReceiver(ctx context.Context, receiver string) (destination, sharedSecretB64 string, err error) {
	if receiver == "" {
		return "", "", errors.New("receiver is required")
	}
	if strings.HasPrefix(receiver, "http://") || strings.HasPrefix(receiver, "https://") {
		return s.querySPSP(ctx, receiver)
	}
	a, err := s.Accounts.GetByUsername(ctx, receiver)
	if err != nil {
		return "", "", errors.New("no such local receiver")
	}
	destination, sharedSecretB64 = streamreceiver.DeriveDestination(s.NodeAddress, s.NodeSecret, a.ID)
	return destination, sharedSecretB64, nil
}

func (s *Server) querySPSP(ctx context.Context, url string) (destination, sharedSecretB64 string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/spsp4+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", errors.New("spsp endpoint returned status " + resp.Status)
	}

	var body spspResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", err
	}
	return body.DestinationAccount, body.SharedSecret, nil
}
