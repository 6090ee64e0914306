// Package ildcp encodes the Fulfill.data payload of an ILDCP response:
// the client's assigned address, asset scale, and asset code.
package ildcp

import "github.com/LeJamon/ilpconnectord/internal/wire/oer"

// Response is the decoded contents of an ILDCP Fulfill.
type Response struct {
	ClientAddress string
	AssetScale    uint8
	AssetCode     string
}

// Encode serializes a Response for use as a Fulfill's data field.
func Encode(r *Response) []byte {
	var dst []byte
	dst = oer.EncodeIA5(dst, r.ClientAddress)
	dst = append(dst, r.AssetScale)
	dst = oer.EncodeIA5(dst, r.AssetCode)
	return dst
}

// Decode parses a Fulfill's data field as an ILDCP Response.
func Decode(data []byte) (*Response, error) {
	off := 0
	addr, n, err := oer.DecodeIA5(data[off:], 1023)
	if err != nil {
		return nil, err
	}
	off += n

	if len(data) < off+1 {
		return nil, oer.ErrTruncated
	}
	scale := data[off]
	off++

	code, _, err := oer.DecodeIA5(data[off:], 64)
	if err != nil {
		return nil, err
	}

	return &Response{ClientAddress: addr, AssetScale: scale, AssetCode: code}, nil
}
