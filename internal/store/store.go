// Package store implements the loose object database: content-addressed
// storage under <repo>/objects/<xx>/<rest>, with atomic writes and prefix
// resolution.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/gfgerrors"
	"github.com/rtandon/gfg/internal/objects"
)

// Store manages the loose object database rooted at <gitDir>/objects.
type Store struct {
	objectsDir string
}

// New returns a Store writing under gitDir/objects.
func New(gitDir string) *Store {
	return &Store{objectsDir: filepath.Join(gitDir, "objects")}
}

func (s *Store) shardPath(sha [20]byte) (dir, file string) {
	hexSha := codec.ShaToHex(sha)
	dir = filepath.Join(s.objectsDir, hexSha[:2])
	file = filepath.Join(dir, hexSha[2:])
	return dir, file
}

// Exists reports whether an object with the given sha is already stored.
func (s *Store) Exists(sha [20]byte) bool {
	_, file := s.shardPath(sha)
	_, err := os.Stat(file)
	return err == nil
}

// Write deflates obj's header+payload and stores it at its content address.
// A write is a no-op if the object is already present: loose objects are
// immutable once written. Returns the object's sha.
func (s *Store) Write(obj objects.Object) ([20]byte, error) {
	sha := objects.Hash(obj)
	dir, file := s.shardPath(sha)

	if s.Exists(sha) {
		slog.Debug("object already stored", "sha", codec.ShaToHex(sha))
		return sha, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sha, fmt.Errorf("failed to create object directory: %w", err)
	}

	compressed, err := codec.Deflate(objects.Data(obj))
	if err != nil {
		return sha, fmt.Errorf("failed to compress object: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tmp_obj_")
	if err != nil {
		return sha, fmt.Errorf("failed to create temp object file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return sha, fmt.Errorf("failed to write object file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return sha, fmt.Errorf("failed to write object file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o444); err != nil {
		os.Remove(tmpPath)
		return sha, fmt.Errorf("failed to set object file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, file); err != nil {
		os.Remove(tmpPath)
		return sha, fmt.Errorf("failed to finalize object file: %w", err)
	}

	return sha, nil
}

// Read inflates and parses the object stored at sha.
func (s *Store) Read(sha [20]byte) (objects.Object, error) {
	objType, payload, err := s.readRaw(sha)
	if err != nil {
		return nil, err
	}
	obj, err := objects.Parse(objType, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", gfgerrors.ErrCorruptObject, codec.ShaToHex(sha), err)
	}
	return obj, nil
}

// readRaw inflates the object at sha and splits its header from its payload
// without attempting to parse the payload into a typed Object.
func (s *Store) readRaw(sha [20]byte) (objects.Type, []byte, error) {
	_, file := s.shardPath(sha)

	compressed, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", gfgerrors.ErrObjectNotFound, codec.ShaToHex(sha))
		}
		return "", nil, fmt.Errorf("failed to read object file %s: %w", codec.ShaToHex(sha), err)
	}

	data, err := codec.Inflate(compressed, codec.MaxInflatedSize)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", gfgerrors.ErrCorruptObject, codec.ShaToHex(sha), err)
	}

	nulIdx := -1
	for i, b := range data {
		if b == 0 {
			nulIdx = i
			break
		}
	}
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: %s: missing header terminator", gfgerrors.ErrCorruptObject, codec.ShaToHex(sha))
	}

	header := string(data[:nulIdx])
	spaceIdx := strings.IndexByte(header, ' ')
	if spaceIdx < 0 {
		return "", nil, fmt.Errorf("%w: %s: malformed header %q", gfgerrors.ErrCorruptObject, codec.ShaToHex(sha), header)
	}
	objType := objects.Type(header[:spaceIdx])
	if !objType.Valid() {
		return "", nil, fmt.Errorf("%w: %s: unknown object type %q", gfgerrors.ErrCorruptObject, codec.ShaToHex(sha), objType)
	}

	size, err := strconv.Atoi(header[spaceIdx+1:])
	if err != nil || size < 0 {
		return "", nil, fmt.Errorf("%w: %s: malformed header %q", gfgerrors.ErrCorruptObject, codec.ShaToHex(sha), header)
	}

	payload := data[nulIdx+1:]
	if size != len(payload) {
		return "", nil, fmt.Errorf("%w: %s: declared size %d, payload is %d bytes", gfgerrors.ErrCorruptObject, codec.ShaToHex(sha), size, len(payload))
	}
	return objType, payload, nil
}

// Fsck re-reads and re-hashes every loose object, reporting any whose
// computed hash no longer matches its storage location.
func (s *Store) Fsck() ([]string, error) {
	var corrupt []string

	err := filepath.WalkDir(s.objectsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.objectsDir, path)
		if err != nil {
			return err
		}
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) != 2 || len(parts[0]) != 2 {
			return nil
		}
		hexSha := parts[0] + parts[1]
		sha, err := codec.HexToSha(hexSha)
		if err != nil {
			corrupt = append(corrupt, hexSha)
			return nil
		}
		objType, payload, err := s.readRaw(sha)
		if err != nil {
			corrupt = append(corrupt, hexSha)
			return nil
		}
		obj, err := objects.Parse(objType, payload)
		if err != nil {
			corrupt = append(corrupt, hexSha)
			return nil
		}
		if codec.ShaToHex(objects.Hash(obj)) != hexSha {
			corrupt = append(corrupt, hexSha)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	sort.Strings(corrupt)
	return corrupt, nil
}

// Resolve expands a hex sha prefix (at least 4 characters) to the single
// matching object sha, or reports Ambiguous/NotFound/InvalidArgument.
func (s *Store) Resolve(prefix string) ([20]byte, error) {
	var zero [20]byte
	prefix = strings.ToLower(prefix)

	if len(prefix) < 4 {
		return zero, fmt.Errorf("%w: object prefix %q must be at least 4 characters", gfgerrors.ErrInvalidArgument, prefix)
	}
	if len(prefix) > codec.ShaHexSize {
		return zero, fmt.Errorf("%w: object prefix %q is longer than a full sha", gfgerrors.ErrInvalidArgument, prefix)
	}
	for _, c := range prefix {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return zero, fmt.Errorf("%w: object prefix %q is not hexadecimal", gfgerrors.ErrInvalidArgument, prefix)
		}
	}

	if len(prefix) == codec.ShaHexSize {
		sha, err := codec.HexToSha(prefix)
		if err != nil {
			return zero, err
		}
		if !s.Exists(sha) {
			return zero, fmt.Errorf("%w: %s", gfgerrors.ErrObjectNotFound, prefix)
		}
		return sha, nil
	}

	shardDir := filepath.Join(s.objectsDir, prefix[:2])
	entries, err := os.ReadDir(shardDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, fmt.Errorf("%w: %s", gfgerrors.ErrObjectNotFound, prefix)
		}
		return zero, fmt.Errorf("failed to resolve object prefix %s: %w", prefix, err)
	}

	rest := prefix[2:]
	var matches []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), rest) {
			matches = append(matches, prefix[:2]+entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%w: %s", gfgerrors.ErrObjectNotFound, prefix)
	case 1:
		return codec.HexToSha(matches[0])
	default:
		sort.Strings(matches)
		return zero, fmt.Errorf("%w: %s (%s)", gfgerrors.ErrAmbiguousPrefix, prefix, strings.Join(matches, ", "))
	}
}
