package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"

	"github.com/rtandon/gfg/internal/codec"
)

// Entry is one file's tracked state: the working-tree stat metadata Git
// checks for cheap dirtiness detection, plus the sha of its blob content.
type Entry struct {
	CtimeSec  uint32
	CtimeNano uint32
	MtimeSec  uint32
	MtimeNano uint32
	Dev       uint32
	Ino       uint32
	Mode      uint32
	Uid       uint32
	Gid       uint32
	Size      uint32
	Sha       [20]byte

	AssumeValid bool
	Stage       uint8 // 0 (normal), 1-3 (merge conflict stages)

	// Name is the entry's path relative to the repository root, using '/'
	// as the separator regardless of host OS.
	Name string
}

// NewEntryFromFile stats absPath and builds the index entry that would
// record relPath's current on-disk state with the already-computed blob
// sha. The blob itself must already be written to the object store; this
// only captures metadata for staleness checks.
func NewEntryFromFile(relPath, absPath string, sha [20]byte) (*Entry, error) {
	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", absPath, err)
	}

	e := &Entry{Name: relPath, Sha: sha, Size: uint32(info.Size())}

	if info.Mode()&0o111 != 0 {
		e.Mode = 0o100755
	} else {
		e.Mode = 0o100644
	}

	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		e.Dev = uint32(sys.Dev)
		e.Ino = uint32(sys.Ino)
		e.Uid = sys.Uid
		e.Gid = sys.Gid
		e.CtimeSec = uint32(sys.Ctim.Sec)
		e.CtimeNano = uint32(sys.Ctim.Nsec)
	}

	mtime := info.ModTime()
	e.MtimeSec = uint32(mtime.Unix())
	e.MtimeNano = uint32(mtime.Nanosecond())

	return e, nil
}

// encode packs the entry as its 62-byte fixed prefix, NUL-terminated name,
// and NUL padding out to the next 8-byte boundary.
func (e Entry) encode() []byte {
	var buf []byte
	buf = codec.PutUint32(buf, e.CtimeSec)
	buf = codec.PutUint32(buf, e.CtimeNano)
	buf = codec.PutUint32(buf, e.MtimeSec)
	buf = codec.PutUint32(buf, e.MtimeNano)
	buf = codec.PutUint32(buf, e.Dev)
	buf = codec.PutUint32(buf, e.Ino)
	buf = codec.PutUint32(buf, e.Mode)
	buf = codec.PutUint32(buf, e.Uid)
	buf = codec.PutUint32(buf, e.Gid)
	buf = codec.PutUint32(buf, e.Size)
	buf = append(buf, e.Sha[:]...)

	nameBytes := []byte(e.Name)
	nameLen := len(nameBytes)
	flagNameLen := nameLen
	if flagNameLen > 0x0FFF {
		flagNameLen = 0x0FFF
	}

	var flags uint16
	if e.AssumeValid {
		flags |= 1 << 15
	}
	flags |= uint16(e.Stage&0x3) << 12
	flags |= uint16(flagNameLen)
	buf = codec.PutUint16(buf, flags)

	buf = append(buf, nameBytes...)

	padLen := codec.PadLenKeepingOne(62+nameLen, 8)
	buf = append(buf, make([]byte, padLen)...)

	return buf
}

// decodeEntry reads one index entry starting at offset, returning the
// number of bytes consumed (including name padding).
func decodeEntry(data []byte, offset int) (Entry, int, error) {
	if offset+62 > len(data) {
		return Entry{}, 0, fmt.Errorf("truncated index entry")
	}

	var e Entry
	r := offset
	readU32 := func() uint32 {
		v := binary.BigEndian.Uint32(data[r : r+4])
		r += 4
		return v
	}

	e.CtimeSec = readU32()
	e.CtimeNano = readU32()
	e.MtimeSec = readU32()
	e.MtimeNano = readU32()
	e.Dev = readU32()
	e.Ino = readU32()
	e.Mode = readU32()
	e.Uid = readU32()
	e.Gid = readU32()
	e.Size = readU32()

	copy(e.Sha[:], data[r:r+codec.ShaSize])
	r += codec.ShaSize

	flags := binary.BigEndian.Uint16(data[r : r+2])
	r += 2
	e.AssumeValid = flags&0x8000 != 0
	e.Stage = uint8((flags >> 12) & 0x3)
	nameLen := int(flags & 0x0FFF)

	var name []byte
	if nameLen < 0x0FFF {
		if r+nameLen > len(data) {
			return Entry{}, 0, fmt.Errorf("truncated index entry name")
		}
		name = data[r : r+nameLen]
		r += nameLen
	} else {
		nulIdx := bytes.IndexByte(data[r:], 0)
		if nulIdx < 0 {
			return Entry{}, 0, fmt.Errorf("unterminated long index entry name")
		}
		name = data[r : r+nulIdx]
		r += nulIdx
	}
	e.Name = string(name)

	consumed := r - offset
	r += codec.PadLenKeepingOne(consumed, 8)

	return e, r - offset, nil
}
