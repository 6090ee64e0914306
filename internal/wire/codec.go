package wire

import (
	"bytes"
	"time"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/wire/oer"
)

// Encode serializes a Prepare, Fulfill, or Reject into a fresh byte slice
// with its 1-byte outer type tag.
func Encode(packet any) ([]byte, error) {
	switch p := packet.(type) {
	case *Prepare:
		return encodePrepare(p)
	case *Fulfill:
		return encodeFulfill(p)
	case *Reject:
		return encodeReject(p)
	default:
		return nil, newCodecErr(ErrBadTypeTag, "packet", nil)
	}
}

func encodePrepare(p *Prepare) ([]byte, error) {
	dst := make([]byte, 0, 64+len(p.Data))
	dst = append(dst, TypePrepare)
	dst = oer.EncodeUint64(dst, p.Amount)
	dst = oer.EncodeTimestamp(dst, p.ExpiresAt)
	dst = append(dst, p.ExecutionCondition[:]...)
	dst = oer.EncodeIA5(dst, p.Destination.String())
	dst = oer.EncodeVarOctets(dst, p.Data)
	return dst, nil
}

func encodeFulfill(f *Fulfill) ([]byte, error) {
	dst := make([]byte, 0, 40+len(f.Data))
	dst = append(dst, TypeFulfill)
	dst = append(dst, f.Fulfillment[:]...)
	dst = oer.EncodeVarOctets(dst, f.Data)
	return dst, nil
}

func encodeReject(r *Reject) ([]byte, error) {
	dst := make([]byte, 0, 32+len(r.Message)+len(r.Data))
	dst = append(dst, TypeReject)
	dst = append(dst, r.Code[:]...)
	dst = oer.EncodeIA5(dst, r.TriggeredBy.String())
	dst = oer.EncodeVarOctets(dst, []byte(r.Message))
	dst = oer.EncodeVarOctets(dst, r.Data)
	return dst, nil
}

// Decode parses the outer type tag of raw and dispatches to the
// matching packet decoder. The returned packet's Condition/Data/Message
// fields are sub-slices of (a Buffer wrapping) raw, with no copies.
func Decode(raw []byte, mode Mode) (any, error) {
	if len(raw) < 1 {
		return nil, newCodecErr(ErrTruncatedPacket, "type", nil)
	}
	buf := NewBuffer(raw)

	var packet any
	var err error
	switch raw[0] {
	case TypePrepare:
		packet, err = decodePrepare(buf, mode)
	case TypeFulfill:
		packet, err = decodeFulfill(buf, mode)
	case TypeReject:
		packet, err = decodeReject(buf, mode)
	default:
		return nil, newCodecErr(ErrBadTypeTag, "type", nil)
	}
	if err != nil {
		return nil, err
	}

	// Roundtrip-only mode rejects any input the encoder would not
	// itself produce, by re-encoding the parse result and comparing.
	if mode&ModeRoundtripOnly != 0 {
		reencoded, encErr := Encode(packet)
		if encErr != nil {
			return nil, encErr
		}
		if !bytes.Equal(reencoded, raw) {
			return nil, newCodecErr(ErrOversizedField, "packet", nil)
		}
	}
	return packet, nil
}

func decodePrepare(buf *Buffer, mode Mode) (*Prepare, error) {
	data := buf.Bytes()
	off := 1

	if len(data) < off+8 {
		return nil, newCodecErr(ErrTruncatedPacket, "amount", nil)
	}
	amountOff := off
	amount, err := oer.DecodeUint64(data[off:])
	if err != nil {
		return nil, newCodecErr(ErrTruncatedPacket, "amount", err)
	}
	off += 8

	if len(data) < off+oer.TimestampSize {
		return nil, newCodecErr(ErrTruncatedPacket, "expires_at", nil)
	}
	expiresAtOff := off
	expiresAt, err := oer.DecodeTimestamp(data[off:])
	if err != nil {
		return nil, newCodecErr(ErrBadTimestamp, "expires_at", err)
	}
	off += oer.TimestampSize

	if len(data) < off+ConditionSize {
		return nil, newCodecErr(ErrTruncatedPacket, "execution_condition", nil)
	}
	var condition [ConditionSize]byte
	copy(condition[:], data[off:off+ConditionSize])
	off += ConditionSize

	addrStr, n, err := oer.DecodeIA5(data[off:], ilpaddr.MaxLength)
	if err != nil {
		return nil, newCodecErr(ErrBadUtf8, "destination", err)
	}
	off += n

	dest, err := ilpaddr.Parse(addrStr)
	if err != nil {
		return nil, newCodecErr(ErrBadAddress, "destination", err)
	}

	payload, n, err := oer.DecodeVarOctets(data[off:], MaxDataSize)
	if err != nil {
		return nil, newCodecErr(ErrOversizedField, "data", err)
	}
	off += n

	if mode&ModeStrict != 0 && off != len(data) {
		return nil, newCodecErr(ErrOversizedField, "data", nil)
	}

	return &Prepare{
		buf:                buf,
		amountOff:          amountOff,
		expiresAtOff:       expiresAtOff,
		Amount:             amount,
		ExpiresAt:          expiresAt,
		ExecutionCondition: condition,
		Destination:        dest,
		Data:               payload,
	}, nil
}

func decodeFulfill(buf *Buffer, mode Mode) (*Fulfill, error) {
	data := buf.Bytes()
	off := 1
	if len(data) < off+FulfillmentSize {
		return nil, newCodecErr(ErrTruncatedPacket, "fulfillment", nil)
	}
	var fulfillment [FulfillmentSize]byte
	copy(fulfillment[:], data[off:off+FulfillmentSize])
	off += FulfillmentSize

	payload, n, err := oer.DecodeVarOctets(data[off:], MaxDataSize)
	if err != nil {
		return nil, newCodecErr(ErrOversizedField, "data", err)
	}
	off += n

	if mode&ModeStrict != 0 && off != len(data) {
		return nil, newCodecErr(ErrOversizedField, "data", nil)
	}

	return &Fulfill{buf: buf, Fulfillment: fulfillment, Data: payload}, nil
}

func decodeReject(buf *Buffer, mode Mode) (*Reject, error) {
	data := buf.Bytes()
	off := 1
	if len(data) < off+3 {
		return nil, newCodecErr(ErrTruncatedPacket, "code", nil)
	}
	var code [3]byte
	copy(code[:], data[off:off+3])
	off += 3

	addrStr, n, err := oer.DecodeIA5(data[off:], ilpaddr.MaxLength)
	if err != nil {
		return nil, newCodecErr(ErrBadUtf8, "triggered_by", err)
	}
	off += n

	var triggeredBy ilpaddr.Address
	if addrStr != "" {
		triggeredBy, err = ilpaddr.Parse(addrStr)
		if err != nil {
			return nil, newCodecErr(ErrBadAddress, "triggered_by", err)
		}
	}

	msgBytes, n, err := oer.DecodeVarOctets(data[off:], MaxDataSize)
	if err != nil {
		return nil, newCodecErr(ErrOversizedField, "message", err)
	}
	off += n

	payload, n, err := oer.DecodeVarOctets(data[off:], MaxDataSize)
	if err != nil {
		return nil, newCodecErr(ErrOversizedField, "data", err)
	}
	off += n

	if mode&ModeStrict != 0 && off != len(data) {
		return nil, newCodecErr(ErrOversizedField, "data", nil)
	}

	return &Reject{
		buf:         buf,
		Code:        code,
		TriggeredBy: triggeredBy,
		Message:     string(msgBytes),
		Data:        payload,
	}, nil
}

// SetAmount mutates the Prepare's amount in place, both in the decoded
// struct and (if the packet was decoded, rather than built in memory)
// at its fixed offset in the backing buffer, per the codec's in-place
// mutation contract. No other bytes are touched.
func (p *Prepare) SetAmount(amount uint64) {
	p.Amount = amount
	if p.buf != nil {
		oer.PutUint64(p.buf.Slice(p.amountOff, p.amountOff+8), amount)
	}
}

// SetExpiresAt mutates the Prepare's expiry in place, symmetric with SetAmount.
func (p *Prepare) SetExpiresAt(t time.Time) {
	p.ExpiresAt = t
	if p.buf != nil {
		oer.PutTimestamp(p.buf.Slice(p.expiresAtOff, p.expiresAtOff+oer.TimestampSize), t)
	}
}
