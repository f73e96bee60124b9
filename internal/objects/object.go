// Package objects implements the three (four, counting the read-only tag
// stub) object variants Git stores by content hash: blob, tree and commit.
// Each variant shares a common contract: Payload, Parse and pretty-print.
package objects

import (
	"fmt"

	"github.com/rtandon/gfg/internal/objhash"
)

// Type identifies which of the loose object variants a payload represents.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
)

// Valid reports whether t is one of the object types this core understands.
func (t Type) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
		return true
	default:
		return false
	}
}

// Object is anything that can be stored by the object store: its type plus
// the exact payload bytes that follow the "<type> <size>\0" header.
type Object interface {
	Type() Type
	Payload() []byte
}

// Hash returns the SHA-1 identity of obj: the hash of its header plus payload.
func Hash(obj Object) [20]byte {
	return objhash.Sum(string(obj.Type()), obj.Payload())
}

// Header returns the "<type> <size>\0" byte sequence preceding obj's payload.
func Header(obj Object) []byte {
	return []byte(fmt.Sprintf("%s %d\x00", obj.Type(), len(obj.Payload())))
}

// Data returns the full identity stream (header + payload) for obj; this is
// what gets deflated and written to a loose object file.
func Data(obj Object) []byte {
	return append(Header(obj), obj.Payload()...)
}

// Parse reconstructs the typed Object for payload given its declared type,
// dispatching to the variant-specific parser.
func Parse(objType Type, payload []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return ParseBlob(payload), nil
	case TypeTree:
		return ParseTree(payload)
	case TypeCommit:
		return ParseCommit(payload)
	case TypeTag:
		return ParseTag(payload), nil
	default:
		return nil, fmt.Errorf("unsupported object type %q", objType)
	}
}
