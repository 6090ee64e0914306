package wire

import (
	"crypto/sha256"
	"time"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
)

// Outer packet type tags, per the ILPv4 envelope.
const (
	TypePrepare uint8 = 12
	TypeFulfill uint8 = 13
	TypeReject  uint8 = 14
)

// ConditionSize and FulfillmentSize are the fixed width of the hashlock
// pair carried by Prepare and Fulfill packets.
const (
	ConditionSize   = 32
	FulfillmentSize = 32
)

// MaxDataSize bounds the variable-length data field the codec will accept.
const MaxDataSize = 32767

// Mode modifies codec behavior as described in the codec's contract.
type Mode uint8

const (
	// ModeLenient accepts any field ordering/padding a lenient decoder would.
	ModeLenient Mode = 0
	// ModeStrict rejects any non-RFC-compliant ordering or padding.
	ModeStrict Mode = 1 << iota
	// ModeRoundtripOnly rejects anything the encoder itself would not produce,
	// used for differential fuzzing of the codec.
	ModeRoundtripOnly
)

// Prepare is the conditional-transfer request packet. Amount and
// ExpiresAt are mutable in place at fixed offsets within buf once
// decoded, per the codec's zero-copy contract; Condition and Data are
// sub-slices of the same backing buffer.
type Prepare struct {
	buf *Buffer

	amountOff    int // offset of the 8-byte amount field within buf
	expiresAtOff int // offset of the 17-byte timestamp field within buf

	Amount             uint64
	ExpiresAt          time.Time
	ExecutionCondition [ConditionSize]byte
	Destination        ilpaddr.Address
	Data               []byte
}

// Fulfill is the cryptographic proof-of-delivery packet.
type Fulfill struct {
	buf         *Buffer
	Fulfillment [FulfillmentSize]byte
	Data        []byte
}

// Reject is the failure-response packet.
type Reject struct {
	buf         *Buffer
	Code        [3]byte
	TriggeredBy ilpaddr.Address
	Message     string
	Data        []byte
}

// Satisfies reports whether f is a valid fulfillment of the Prepare's
// execution condition: sha256(fulfillment) == execution_condition.
func (f *Fulfill) Satisfies(condition [ConditionSize]byte) bool {
	got := sha256.Sum256(f.Fulfillment[:])
	return got == condition
}

// NewFulfillment builds a Fulfill whose Fulfillment hashes to condition,
// given the preimage. The caller supplies the preimage bytes directly;
// this helper just validates and wraps.
func NewFulfillment(preimage [FulfillmentSize]byte, data []byte) *Fulfill {
	return &Fulfill{Fulfillment: preimage, Data: data}
}

// CodeString returns the 3-character Reject error code as a string.
func (r *Reject) CodeString() string { return string(r.Code[:]) }

// SetCode sets the 3-character error code, left-padding/truncating as needed.
func (r *Reject) SetCode(code string) {
	var c [3]byte
	copy(c[:], code)
	r.Code = c
}

// Buffer returns the backing ref-counted buffer, or nil if the packet
// was constructed in memory rather than decoded.
func (p *Prepare) Buffer() *Buffer { return p.buf }
func (f *Fulfill) Buffer() *Buffer { return f.buf }
func (r *Reject) Buffer() *Buffer  { return r.buf }
