// Package identity computes structural identities for expression nodes.
//
// An identity is a 64-bit digest derived from a node's operator tag and the
// identities of its children. Two nodes constructed from the same tag and the
// same child identities always hash to the same digest, which makes the digest
// usable as an equality key, a memoization key for lowering, and a
// self-reference probe (e.g. detecting x*x).
package identity

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Digest is a structural identity of an expression node.
type Digest uint64

// String returns the digest as fixed-width hex, convenient for log fields and
// singleflight keys.
func (d Digest) String() string {
	return strconv.FormatUint(uint64(d), 16)
}

// Leaf computes the identity of a terminal node from its tag and an opaque
// payload (a variable's unique id, a constant's contents).
func Leaf(tag string, payload []byte) Digest {
	h := xxhash.New()
	_, _ = h.WriteString(tag)
	_, _ = h.Write(payload)
	return Digest(h.Sum64())
}

// Compose computes the identity of an internal node from its operator tag and
// its children's identities. Child order is significant: Compose("mul", a, b)
// and Compose("mul", b, a) are distinct.
func Compose(tag string, children ...Digest) Digest {
	h := xxhash.New()
	_, _ = h.WriteString(tag)
	var buf [8]byte
	for _, c := range children {
		binary.LittleEndian.PutUint64(buf[:], uint64(c))
		_, _ = h.Write(buf[:])
	}
	return Digest(h.Sum64())
}
