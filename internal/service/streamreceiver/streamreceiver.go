// Package streamreceiver terminates STREAM for Prepare packets
// addressed to a receiver tag derived from this node's secret,
// producing the Fulfill.
//
// STREAM's own encryption layer is out of this core's scope; this
// package decodes the frame contract directly and derives the
// fulfillment and receiver tag from fixed HMAC constructions over
// the node secret.
package streamreceiver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
	"github.com/LeJamon/ilpconnectord/internal/store"
	"github.com/LeJamon/ilpconnectord/internal/wire"
	"github.com/LeJamon/ilpconnectord/internal/wire/oer"
	"github.com/LeJamon/ilpconnectord/internal/wire/streamcodec"
)

const (
	tagContext          = "ilp_stream_tag_v1"
	sharedSecretContext = "ilp_stream_shared_secret_v1"
	tagLength           = 14
)

// Service terminates STREAM Prepares for every account on this node.
type Service struct {
	NodeAddress ilpaddr.Address
	NodeSecret  []byte
	Accounts    store.AccountStore
}

// Handle implements service.IncomingService. It is wired as the
// router's local-termination handler for destinations under this
// node's own address.
func (s *Service) Handle(ctx context.Context, req *service.Request) (*service.Response, error) {
	dest := req.Prepare.Destination.String()

	accounts, err := s.Accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var sharedSecret []byte
	matched := false
	for _, a := range accounts {
		tag := deriveTag(s.NodeSecret, a.ID)
		expected := s.NodeAddress.String() + "." + tag
		if dest == expected || strings.HasPrefix(dest, expected+".") {
			sharedSecret = deriveSharedSecret(s.NodeSecret, tag)
			matched = true
			break
		}
	}
	if !matched {
		return service.Reject(service.CodeApplication, s.NodeAddress, "no account matches the stream receiver tag"), nil
	}

	packet, err := streamcodec.Decode(req.Prepare.Data)
	if err != nil {
		return service.Reject(service.CodeApplication, s.NodeAddress, "could not decode stream frames"), nil
	}

	if req.Prepare.Amount < packet.AmountToReceive() {
		return service.Reject(service.CodeApplication, s.NodeAddress, "amount is below the declared amount_to_receive"), nil
	}

	fulfillment := deriveFulfillment(sharedSecret, req.Prepare.Amount, req.Prepare.Data, req.Prepare.ExpiresAt)
	f := wire.NewFulfillment(fulfillment, nil)
	if !f.Satisfies(req.Prepare.ExecutionCondition) {
		return service.Reject(service.CodeApplication, s.NodeAddress, "derived fulfillment does not satisfy the execution condition"), nil
	}

	ack, err := streamcodec.Encode(&streamcodec.Packet{SequenceID: packet.SequenceID})
	if err != nil {
		return nil, err
	}
	f.Data = ack
	return service.Fulfilled(f), nil
}

// deriveTag computes the base64url receiver tag for accountID:
// HMAC_SHA256(node_secret, "ilp_stream_tag_v1" || account_id).
func deriveTag(secret []byte, accountID uuid.UUID) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(tagContext))
	mac.Write(accountID[:])
	tag := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if len(tag) > tagLength {
		tag = tag[:tagLength]
	}
	return tag
}

// DeriveDestination returns the STREAM destination address and
// base64-encoded shared secret this node would use to receive payments
// for accountID, the same derivation Handle uses to terminate a
// Prepare. Exposed for the SPSP payment-pointer endpoint.
func DeriveDestination(nodeAddress ilpaddr.Address, nodeSecret []byte, accountID uuid.UUID) (destination, sharedSecretB64 string) {
	tag := deriveTag(nodeSecret, accountID)
	destination = nodeAddress.String() + "." + tag
	sharedSecretB64 = base64.StdEncoding.EncodeToString(deriveSharedSecret(nodeSecret, tag))
	return destination, sharedSecretB64
}

// Condition computes the execution condition a STREAM sender must
// attach so that the fulfillment this receiver derives from the same
// shared secret satisfies it. The sender and receiver run the same
// HMAC over (amount, data, expires_at); the condition is its SHA-256.
func Condition(sharedSecret []byte, amount uint64, data []byte, expiresAt time.Time) [wire.ConditionSize]byte {
	f := deriveFulfillment(sharedSecret, amount, data, expiresAt)
	return sha256.Sum256(f[:])
}

func deriveSharedSecret(nodeSecret []byte, tag string) []byte {
	mac := hmac.New(sha256.New, nodeSecret)
	mac.Write([]byte(sharedSecretContext))
	mac.Write([]byte(tag))
	return mac.Sum(nil)
}

// deriveFulfillment computes HMAC_SHA256(shared_secret, amount || data
// || expires_at), using the same wire encodings the codec transmits.
func deriveFulfillment(sharedSecret []byte, amount uint64, data []byte, expiresAt time.Time) [wire.FulfillmentSize]byte {
	mac := hmac.New(sha256.New, sharedSecret)
	mac.Write(oer.EncodeUint64(nil, amount))
	mac.Write(data)
	mac.Write(oer.EncodeTimestamp(nil, expiresAt))

	var out [wire.FulfillmentSize]byte
	copy(out[:], mac.Sum(nil))
	return out
}
