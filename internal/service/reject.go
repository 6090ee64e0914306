package service

import (
	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/wire"
)

// Standard ILPv4 Reject codes. Only the codes this
// core actually produces are named here.
const (
	CodeBadRequest           = "F00"
	CodeInvalidPacket        = "F01"
	CodeUnreachable          = "F02"
	CodeInvalidAmount        = "F03"
	CodeUnexpected           = "F06"
	CodeAmountTooLarge       = "F08"
	CodeInvalidPeerResponse  = "F09"
	CodeApplication          = "F99"
	CodeInternal             = "T00"
	CodePeerUnreachable      = "T01"
	CodeConnectorBusy        = "T03"
	CodeInsufficientLiquidity = "T04"
	CodeRateLimited          = "T05"
	CodeTransferTimedOut     = "R00"
)

// Reject builds a Reject response with triggeredBy set to the node's
// own address.
func Reject(code string, triggeredBy ilpaddr.Address, message string) *Response {
	r := &wire.Reject{
		TriggeredBy: triggeredBy,
		Message:     message,
	}
	r.SetCode(code)
	return Rejected(r)
}
