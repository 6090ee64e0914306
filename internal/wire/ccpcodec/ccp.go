// Package ccpcodec encodes and decodes CCP (Connector-to-Connector
// Protocol) route-update and route-control frames. These frames travel
// as the Data payload of Prepare packets addressed to peer.route.update
// and peer.route.control.
package ccpcodec

import (
	"crypto/hmac"
	"crypto/sha256"
	"strings"

	"github.com/LeJamon/ilpconnectord/internal/wire/oer"
)

// AuthSize is the width of a route record's HMAC authenticator.
const AuthSize = 32

// RouteProps are route property flags carried alongside a route record.
type RouteProps uint8

const (
	// PropAuthMissing marks a route whose auth field could not be verified.
	PropAuthMissing RouteProps = 1 << iota
)

// Route is a single advertised or withdrawn route.
type Route struct {
	Prefix string
	Path   []string // the chain of ILP addresses the route has traversed
	Auth   [AuthSize]byte
	Props  RouteProps
}

// Update is a CCP route-update delta for one peer session epoch range.
type Update struct {
	FromEpochIndex    uint32
	ToEpochIndex      uint32
	NewRoutes         []Route
	WithdrawnPrefixes []string
	Speaker           string // our address, appended to each route's path before re-broadcast
}

// Control is a CCP route-control message requesting a full resync.
type Control struct {
	LastKnownEpoch uint32
	Features       []string
}

// ComputeAuth derives a route's HMAC authenticator from the shared
// per-session secret.
func ComputeAuth(secret []byte, prefix string, path []string) [AuthSize]byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(prefix))
	mac.Write([]byte{0})
	mac.Write([]byte(strings.Join(path, ",")))
	var out [AuthSize]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// VerifyAuth reports whether route carries a valid HMAC for secret.
func VerifyAuth(secret []byte, route Route) bool {
	want := ComputeAuth(secret, route.Prefix, route.Path)
	return hmac.Equal(want[:], route.Auth[:])
}

// EncodeUpdate serializes an Update to bytes for embedding as Prepare.Data.
func EncodeUpdate(u *Update) []byte {
	var dst []byte
	dst = oer.EncodeUint64(dst, uint64(u.FromEpochIndex)<<32|uint64(u.ToEpochIndex))
	dst = oer.EncodeLength(dst, len(u.NewRoutes))
	for _, r := range u.NewRoutes {
		dst = encodeRoute(dst, r)
	}
	dst = oer.EncodeLength(dst, len(u.WithdrawnPrefixes))
	for _, p := range u.WithdrawnPrefixes {
		dst = oer.EncodeIA5(dst, p)
	}
	return dst
}

func encodeRoute(dst []byte, r Route) []byte {
	dst = oer.EncodeIA5(dst, r.Prefix)
	dst = oer.EncodeLength(dst, len(r.Path))
	for _, hop := range r.Path {
		dst = oer.EncodeIA5(dst, hop)
	}
	dst = append(dst, r.Auth[:]...)
	dst = append(dst, byte(r.Props))
	return dst
}

// DecodeUpdate parses an Update from a Prepare.Data payload.
func DecodeUpdate(data []byte) (*Update, error) {
	off := 0
	epochs, err := oer.DecodeUint64(data[off:])
	if err != nil {
		return nil, err
	}
	off += 8

	u := &Update{
		FromEpochIndex: uint32(epochs >> 32),
		ToEpochIndex:   uint32(epochs),
	}

	nNew, n, err := oer.DecodeLength(data[off:])
	if err != nil {
		return nil, err
	}
	off += n
	for i := 0; i < nNew; i++ {
		r, consumed, err := decodeRoute(data[off:])
		if err != nil {
			return nil, err
		}
		off += consumed
		u.NewRoutes = append(u.NewRoutes, r)
	}

	nWithdrawn, n, err := oer.DecodeLength(data[off:])
	if err != nil {
		return nil, err
	}
	off += n
	for i := 0; i < nWithdrawn; i++ {
		prefix, consumed, err := oer.DecodeIA5(data[off:], 1023)
		if err != nil {
			return nil, err
		}
		off += consumed
		u.WithdrawnPrefixes = append(u.WithdrawnPrefixes, prefix)
	}

	return u, nil
}

func decodeRoute(data []byte) (Route, int, error) {
	off := 0
	prefix, n, err := oer.DecodeIA5(data[off:], 1023)
	if err != nil {
		return Route{}, 0, err
	}
	off += n

	nPath, n, err := oer.DecodeLength(data[off:])
	if err != nil {
		return Route{}, 0, err
	}
	off += n

	path := make([]string, 0, nPath)
	for i := 0; i < nPath; i++ {
		hop, consumed, err := oer.DecodeIA5(data[off:], 1023)
		if err != nil {
			return Route{}, 0, err
		}
		off += consumed
		path = append(path, hop)
	}

	if len(data) < off+AuthSize+1 {
		return Route{}, 0, oer.ErrTruncated
	}
	var auth [AuthSize]byte
	copy(auth[:], data[off:off+AuthSize])
	off += AuthSize
	props := RouteProps(data[off])
	off++

	return Route{Prefix: prefix, Path: path, Auth: auth, Props: props}, off, nil
}

// ContainsAddress reports whether own appears anywhere in path, used to
// detect and drop routes that have already traversed this node.
func ContainsAddress(path []string, own string) bool {
	for _, hop := range path {
		if hop == own {
			return true
		}
	}
	return false
}
