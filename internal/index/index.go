// Package index implements the DIRC v2 index file: parsing, atomic
// writing, path-sorted entries, and the TREE cache-tree extension that
// backs write-tree.
package index

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/rtandon/gfg/internal/gfgerrors"
)

const signature = "DIRC"
const supportedVersion = 2
const headerSize = 12
const checksumSize = 20

// Index is an in-memory DIRC v2 index: the staged entries plus the
// cache-tree state used to skip unchanged directories on write-tree.
type Index struct {
	Entries   []Entry
	CacheTree *CacheTree
}

// New returns an empty index, as a freshly initialised repository has.
func New() *Index {
	return &Index{CacheTree: NewCacheTree()}
}

// ReadFile loads the index at path, or returns a fresh empty index if no
// index file exists yet.
func ReadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a complete index file, verifying its trailing checksum.
func Parse(data []byte) (*Index, error) {
	if len(data) < headerSize+checksumSize {
		return nil, fmt.Errorf("index file too short")
	}

	body := data[:len(data)-checksumSize]
	wantChecksum := data[len(data)-checksumSize:]
	gotChecksum := sha1.Sum(body)
	if !bytes.Equal(gotChecksum[:], wantChecksum) {
		return nil, fmt.Errorf("index checksum mismatch")
	}

	if string(body[:4]) != signature {
		return nil, fmt.Errorf("not a git index file")
	}
	ver := binary.BigEndian.Uint32(body[4:8])
	if ver != supportedVersion {
		return nil, fmt.Errorf("unsupported index version %d", ver)
	}
	numEntries := binary.BigEndian.Uint32(body[8:12])

	idx := &Index{}
	offset := headerSize
	for i := uint32(0); i < numEntries; i++ {
		entry, consumed, err := decodeEntry(body, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to decode index entry %d: %w", i, err)
		}
		idx.Entries = append(idx.Entries, entry)
		offset += consumed
	}

	cacheTree, err := parseExtensions(body[offset:])
	if err != nil {
		return nil, err
	}
	idx.CacheTree = cacheTree

	return idx, nil
}

// parseExtensions walks the extensions block, applying the known TREE
// extension and rejecting any unrecognised extension whose signature
// starts with an uppercase letter (mandatory-to-understand, per format).
func parseExtensions(data []byte) (*CacheTree, error) {
	ct := NewCacheTree()
	offset := 0
	for offset < len(data) {
		if offset+8 > len(data) {
			return nil, fmt.Errorf("truncated extension header")
		}
		sig := string(data[offset : offset+4])
		length := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		end := offset + 8 + length
		if end > len(data) {
			return nil, fmt.Errorf("truncated %q extension", sig)
		}
		block := data[offset:end]

		switch {
		case sig == cacheTreeSignature:
			parsed, err := ParseCacheTree(block)
			if err != nil {
				return nil, err
			}
			ct = parsed
		case len(sig) > 0 && sig[0] >= 'A' && sig[0] <= 'Z':
			return nil, fmt.Errorf("%w: %q", gfgerrors.ErrUnsupportedExtension, sig)
		}
		offset = end
	}
	return ct, nil
}

func (idx *Index) sortEntries() {
	sort.SliceStable(idx.Entries, func(i, j int) bool {
		return idx.Entries[i].Name < idx.Entries[j].Name
	})
}

// AddEntry inserts or replaces the entry for its path and invalidates the
// cache-tree nodes for that path and every ancestor.
func (idx *Index) AddEntry(entry Entry) {
	for i, e := range idx.Entries {
		if e.Name == entry.Name {
			idx.Entries[i] = entry
			idx.CacheTree.Invalidate(dirName(entry.Name))
			idx.sortEntries()
			return
		}
	}
	idx.Entries = append(idx.Entries, entry)
	idx.CacheTree.Invalidate(dirName(entry.Name))
	idx.sortEntries()
}

// RemoveEntry erases the entry at name, if present, invalidating the same
// ancestor chain AddEntry would.
func (idx *Index) RemoveEntry(name string) bool {
	for i, e := range idx.Entries {
		if e.Name == name {
			idx.Entries = append(idx.Entries[:i], idx.Entries[i+1:]...)
			idx.CacheTree.Invalidate(dirName(name))
			return true
		}
	}
	return false
}

// FindEntry looks up an entry by its exact repo-relative path.
func (idx *Index) FindEntry(name string) (Entry, bool) {
	for _, e := range idx.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// GetBlobs returns entries whose parent directory equals dir exactly.
func (idx *Index) GetBlobs(dir string) []Entry {
	var out []Entry
	for _, e := range idx.Entries {
		if dirName(e.Name) == dir {
			out = append(out, e)
		}
	}
	return out
}

func (idx *Index) bodyBytes() []byte {
	idx.sortEntries()

	var buf []byte
	buf = append(buf, []byte(signature)...)
	buf = binary.BigEndian.AppendUint32(buf, supportedVersion)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(idx.Entries)))
	for _, e := range idx.Entries {
		buf = append(buf, e.encode()...)
	}
	if ext := idx.CacheTree.Bytes(); ext != nil {
		buf = append(buf, ext...)
	}
	return buf
}

// WriteFile serialises the index and writes it atomically: contents land in
// "<path>.lock" first, then get renamed onto path so a reader never
// observes a partial write.
func (idx *Index) WriteFile(path string) error {
	body := idx.bodyBytes()
	checksum := sha1.Sum(body)

	lockPath := path + ".lock"
	lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to acquire index lock: %w", err)
	}
	defer os.Remove(lockPath)

	if _, err := lock.Write(body); err != nil {
		lock.Close()
		return fmt.Errorf("failed to write index: %w", err)
	}
	if _, err := lock.Write(checksum[:]); err != nil {
		lock.Close()
		return fmt.Errorf("failed to write index checksum: %w", err)
	}
	if err := lock.Close(); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(lockPath, path); err != nil {
		return fmt.Errorf("failed to finalize index: %w", err)
	}

	return nil
}
