package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/gfgerrors"
	"github.com/rtandon/gfg/internal/objects"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gitDir := filepath.Join(t.TempDir(), ".git")
	return New(gitDir)
}

func TestStore_WriteAndRead(t *testing.T) {
	s := newTestStore(t)
	blob := objects.NewBlob([]byte("test content\n"))

	sha, err := s.Write(blob)
	if err != nil {
		t.Fatalf("failed to write blob: %v", err)
	}
	if sha != objects.Hash(blob) {
		t.Fatalf("expected written sha to equal object hash")
	}

	read, err := s.Read(sha)
	if err != nil {
		t.Fatalf("failed to read blob: %v", err)
	}
	readBlob, ok := read.(*objects.Blob)
	if !ok {
		t.Fatalf("expected *objects.Blob, got %T", read)
	}
	if string(readBlob.Content()) != "test content\n" {
		t.Fatalf("content mismatch: got %q", readBlob.Content())
	}
}

func TestStore_WriteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	blob := objects.NewBlob([]byte("repeated\n"))

	sha1, err := s.Write(blob)
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	sha2, err := s.Write(blob)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if sha1 != sha2 {
		t.Fatal("expected identical content to produce identical sha")
	}
}

func TestStore_Compression(t *testing.T) {
	s := newTestStore(t)
	largeContent := bytes.Repeat([]byte("This is repeated content. "), 100)
	blob := objects.NewBlob(largeContent)

	sha, err := s.Write(blob)
	if err != nil {
		t.Fatalf("failed to write blob: %v", err)
	}

	_, file := s.shardPath(sha)
	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read raw object file: %v", err)
	}
	if len(raw) >= len(objects.Data(blob)) {
		t.Errorf("expected compressed size < original size: compressed=%d original=%d", len(raw), len(objects.Data(blob)))
	}
}

func TestStore_Exists(t *testing.T) {
	s := newTestStore(t)
	blob := objects.NewBlob([]byte("test\n"))
	sha := objects.Hash(blob)

	if s.Exists(sha) {
		t.Error("blob should not exist before storing")
	}
	if _, err := s.Write(blob); err != nil {
		t.Fatalf("failed to write blob: %v", err)
	}
	if !s.Exists(sha) {
		t.Error("blob should exist after storing")
	}
}

func TestStore_ReadNonExistent(t *testing.T) {
	s := newTestStore(t)
	var fakeSha [20]byte

	_, err := s.Read(fakeSha)
	if err == nil {
		t.Fatal("expected error when reading non-existent object")
	}
	if !errors.Is(err, gfgerrors.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got: %v", err)
	}
}

func TestStore_Resolve(t *testing.T) {
	s := newTestStore(t)
	blob := objects.NewBlob([]byte("resolve me\n"))
	sha, err := s.Write(blob)
	if err != nil {
		t.Fatalf("failed to write blob: %v", err)
	}
	hexSha := codec.ShaToHex(sha)

	resolved, err := s.Resolve(hexSha[:6])
	if err != nil {
		t.Fatalf("failed to resolve short prefix: %v", err)
	}
	if resolved != sha {
		t.Fatal("resolved sha does not match written sha")
	}
}

func TestStore_ResolveTooShortPrefix(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Resolve("abc"); !errors.Is(err, gfgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got: %v", err)
	}
}

func TestStore_ResolveAmbiguous(t *testing.T) {
	s := newTestStore(t)

	// Write two blobs and manufacture a shared-prefix collision by reading
	// back whichever two real shas happen to share a shard directory; since
	// that's not guaranteed from arbitrary content, directly probe Resolve's
	// ambiguity path via two entries sharing the full two-char shard.
	blobA := objects.NewBlob([]byte("alpha\n"))
	blobB := objects.NewBlob([]byte("beta\n"))
	shaA, err := s.Write(blobA)
	if err != nil {
		t.Fatalf("failed to write blobA: %v", err)
	}
	shaB, err := s.Write(blobB)
	if err != nil {
		t.Fatalf("failed to write blobB: %v", err)
	}
	hexA, hexB := codec.ShaToHex(shaA), codec.ShaToHex(shaB)
	if hexA[:2] != hexB[:2] {
		t.Skip("blobA and blobB did not land in the same shard; ambiguity path not exercised")
	}

	commonLen := 2
	for commonLen < len(hexA) && hexA[commonLen] == hexB[commonLen] {
		commonLen++
	}
	if commonLen < 4 {
		t.Skip("blobA and blobB do not share a resolvable-length prefix")
	}

	if _, err := s.Resolve(hexA[:commonLen]); !errors.Is(err, gfgerrors.ErrAmbiguousPrefix) {
		t.Fatalf("expected ErrAmbiguousPrefix, got: %v", err)
	}
}

func TestStore_Fsck_DetectsNoCorruptionOnCleanStore(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Write(objects.NewBlob([]byte("clean\n"))); err != nil {
		t.Fatalf("failed to write blob: %v", err)
	}

	corrupt, err := s.Fsck()
	if err != nil {
		t.Fatalf("fsck failed: %v", err)
	}
	if len(corrupt) != 0 {
		t.Errorf("expected no corruption, got %v", corrupt)
	}
}
