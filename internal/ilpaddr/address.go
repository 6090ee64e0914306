// Package ilpaddr implements the ILPv4 address grammar and the prefix
// algebra the router and CCP services dispatch on.
package ilpaddr

import (
	"errors"
	"regexp"
	"strings"
)

// MaxLength is the maximum encoded length of an ILP address in bytes.
const MaxLength = 1023

// addressPattern matches a well-formed ILP address: a root allocation
// scheme segment followed by one or more '.'-delimited segments.
var addressPattern = regexp.MustCompile(`^(g|private|example|peer|self|test[1-3]?|local)([.][A-Za-z0-9_~-]+)+$`)

var (
	// ErrEmpty is returned for a zero-length address.
	ErrEmpty = errors.New("ilpaddr: empty address")
	// ErrTooLong is returned when an address exceeds MaxLength bytes.
	ErrTooLong = errors.New("ilpaddr: address exceeds maximum length")
	// ErrMalformed is returned when an address does not match the ILPv4 grammar.
	ErrMalformed = errors.New("ilpaddr: address does not match ILP address grammar")
)

// Address is a validated ILPv4 address. The zero value is not a valid
// address; use Parse to construct one.
type Address struct {
	raw string
}

// Parse validates s against the ILPv4 address grammar and returns an Address.
func Parse(s string) (Address, error) {
	if len(s) == 0 {
		return Address{}, ErrEmpty
	}
	if len(s) > MaxLength {
		return Address{}, ErrTooLong
	}
	if !addressPattern.MatchString(s) {
		return Address{}, ErrMalformed
	}
	return Address{raw: s}, nil
}

// MustParse is like Parse but panics on error. Intended for constants
// and tests, not for handling untrusted input.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the address's textual form.
func (a Address) String() string { return a.raw }

// IsZero reports whether a has not been populated by Parse.
func (a Address) IsZero() bool { return a.raw == "" }

// segments splits the address on '.' boundaries.
func (a Address) segments() []string {
	return strings.Split(a.raw, ".")
}

// HasPrefix reports whether prefix is a component-wise prefix of a
// (or equal to a). Components are compared whole-segment, so
// "g.foo" is a prefix of "g.foo.bar" but not of "g.foobar".
func (a Address) HasPrefix(prefix string) bool {
	if prefix == a.raw {
		return true
	}
	return strings.HasPrefix(a.raw, prefix+".")
}

// StrictlyPrefixedBy reports whether prefix is a strict (non-equal)
// prefix of a.
func (a Address) StrictlyPrefixedBy(prefix string) bool {
	return prefix != a.raw && a.HasPrefix(prefix)
}

// Root returns the address's root allocation-scheme segment
// (e.g. "g", "peer", "test3").
func (a Address) Root() string {
	if i := strings.IndexByte(a.raw, '.'); i >= 0 {
		return a.raw[:i]
	}
	return a.raw
}

// IsPeerScoped reports whether the address falls under the reserved
// "peer." prefix, which is never forwarded to an external peer.
func (a Address) IsPeerScoped() bool {
	return a.raw == "peer" || strings.HasPrefix(a.raw, "peer.")
}

// Child appends a username segment onto a, as ILDCP does when handing
// a child node its assigned address.
func (a Address) Child(segment string) (Address, error) {
	return Parse(a.raw + "." + segment)
}

// CommonPrefixLength returns the number of whole '.'-delimited segments
// that s and the candidate prefix share, used by the routing table's
// longest-prefix match. It operates on raw strings since routing table
// keys are stored as prefixes, not necessarily valid full addresses.
func CommonPrefixLength(addr, prefix string) int {
	addrSegs := strings.Split(addr, ".")
	prefixSegs := strings.Split(prefix, ".")
	n := 0
	for n < len(addrSegs) && n < len(prefixSegs) && addrSegs[n] == prefixSegs[n] {
		n++
	}
	return n
}

// IsPrefixMatch reports whether prefix matches addr under the same
// component-wise rule as HasPrefix, for use against routing table keys
// that are not necessarily full valid addresses themselves.
func IsPrefixMatch(addr, prefix string) bool {
	if addr == prefix {
		return true
	}
	return strings.HasPrefix(addr, prefix+".")
}
