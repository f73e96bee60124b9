// Package objhash computes Git's object identity: the SHA-1 of
// "<type> <size>\0<payload>".
package objhash

import (
	"crypto/sha1"
	"fmt"
	"hash"
	"io"
)

// Sum computes the 20-byte SHA-1 identity for an object of the given type
// holding payload.
func Sum(objType string, payload []byte) [20]byte {
	h := sha1.New()
	writeHeader(h, objType, int64(len(payload)))
	h.Write(payload)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hasher streams an object's identity hash without holding the payload twice
// in memory; callers write the raw payload to it after construction.
type Hasher struct {
	h hash.Hash
}

// NewHasher returns a Hasher primed with the object header for a payload of
// the given declared size.
func NewHasher(objType string, size int64) *Hasher {
	h := sha1.New()
	writeHeader(h, objType, size)
	return &Hasher{h: h}
}

// Write implements io.Writer, feeding payload bytes into the running hash.
func (hs *Hasher) Write(p []byte) (int, error) {
	return hs.h.Write(p)
}

// Sum returns the final 20-byte SHA-1 once the full payload has been written.
func (hs *Hasher) Sum() [20]byte {
	var out [20]byte
	copy(out[:], hs.h.Sum(nil))
	return out
}

func writeHeader(w io.Writer, objType string, size int64) {
	fmt.Fprintf(w, "%s %d\x00", objType, size)
}
