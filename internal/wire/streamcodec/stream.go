// Package streamcodec encodes and decodes the STREAM frames carried,
// encrypted, inside a Prepare packet's data field. STREAM itself is
// specified only by its contract with the pipeline, so
// this package implements the minimal frame set the stream receiver
// needs: the declared amount to receive and an optional connection
// close. Frames are msgpack-encoded with ugorji/go/codec, the generic
// binary codec our dependency set carries for exactly this kind of
// inner, non-OER sub-encoding.
package streamcodec

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

// FrameType distinguishes the STREAM frame variants this package understands.
type FrameType uint8

const (
	// FrameStreamMoney declares an amount being sent on a stream.
	FrameStreamMoney FrameType = 1
	// FrameConnectionClose signals the sender is done with the connection.
	FrameConnectionClose FrameType = 2
)

// Frame is a single STREAM frame.
type Frame struct {
	Type            FrameType `codec:"type"`
	StreamID        uint64    `codec:"stream_id,omitempty"`
	AmountToReceive uint64    `codec:"amount_to_receive,omitempty"`
	ErrorCode       string    `codec:"error_code,omitempty"`
}

// Packet is the decrypted payload of a Prepare/Fulfill's data field: an
// ordered list of frames.
type Packet struct {
	SequenceID uint64  `codec:"sequence_id"`
	Frames     []Frame `codec:"frames"`
}

func handle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.Canonical = true
	return h
}

// Encode serializes a STREAM Packet to bytes, ready for encryption and
// embedding in a Prepare/Fulfill's data field.
func Encode(p *Packet) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, handle())
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a decrypted STREAM payload into a Packet.
func Decode(data []byte) (*Packet, error) {
	var p Packet
	dec := codec.NewDecoderBytes(data, handle())
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AmountToReceive returns the declared amount_to_receive across all
// StreamMoney frames in the packet, or 0 if none is present.
func (p *Packet) AmountToReceive() uint64 {
	var total uint64
	for _, f := range p.Frames {
		if f.Type == FrameStreamMoney {
			total += f.AmountToReceive
		}
	}
	return total
}

// HasConnectionClose reports whether the packet carries a connection-close frame.
func (p *Packet) HasConnectionClose() bool {
	for _, f := range p.Frames {
		if f.Type == FrameConnectionClose {
			return true
		}
	}
	return false
}
