// Package codec provides the low-level byte plumbing shared by the object
// store and the index file: big-endian integer packing, size-bounded
// deflate/inflate, and hex/raw SHA-1 conversion.
package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// ShaSize is the number of raw bytes in a SHA-1 object id.
const ShaSize = 20

// ShaHexSize is the number of hex characters representing a SHA-1.
const ShaHexSize = ShaSize * 2

// PutUint32 appends the big-endian encoding of v to buf.
func PutUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutUint16 appends the big-endian encoding of v to buf.
func PutUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

// ReadUint32 reads one big-endian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

// ReadUint16 reads one big-endian uint16 from r.
func ReadUint16(r io.Reader) (uint16, error) {
	var tmp [2]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(tmp[:]), nil
}

// HexToSha decodes a 40-character lowercase hex string into its 20 raw bytes.
func HexToSha(hexSha string) ([ShaSize]byte, error) {
	var sha [ShaSize]byte
	if len(hexSha) != ShaHexSize {
		return sha, fmt.Errorf("invalid sha length %d, want %d", len(hexSha), ShaHexSize)
	}
	decoded, err := hex.DecodeString(hexSha)
	if err != nil {
		return sha, fmt.Errorf("invalid sha %q: %w", hexSha, err)
	}
	copy(sha[:], decoded)
	return sha, nil
}

// ShaToHex encodes 20 raw SHA-1 bytes as a lowercase 40-character string.
func ShaToHex(sha [ShaSize]byte) string {
	return hex.EncodeToString(sha[:])
}

// PadToMultiple returns the number of zero-padding bytes needed to bring n up
// to the next multiple of m (0 if n is already a multiple of m, never more
// than m-1).
func PadToMultiple(n, m int) int {
	r := n % m
	if r == 0 {
		return 0
	}
	return m - r
}

// PadLenKeepingOne is PadToMultiple, except it never returns 0: an index
// entry's name is NUL-terminated before the padding starts, so even a name
// that lands exactly on the boundary still needs a full m bytes of padding.
func PadLenKeepingOne(n, m int) int {
	pad := PadToMultiple(n, m)
	if pad == 0 {
		return m
	}
	return pad
}
