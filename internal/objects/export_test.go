package objects

import (
	"crypto/rand"
	"fmt"
	"testing"
	"time"
)

// randomSha returns a pseudo-random 20-byte sha, useful where tests need a
// distinct object identity but don't care which one.
func randomSha(t *testing.T) [20]byte {
	t.Helper()
	var sha [20]byte
	if _, err := rand.Read(sha[:]); err != nil {
		t.Fatalf("failed to generate random sha: %v", err)
	}
	return sha
}

// testAuthor returns a deterministic author/committer identity for assertions
// that need stable Payload() output.
func testAuthor(name, email string, when time.Time) Author {
	return Author{Name: name, Email: email, Timestamp: when.Truncate(time.Second)}
}

func mustNewTreeEntry(t *testing.T, mode FileMode, name string, sha [20]byte) TreeEntry {
	t.Helper()
	entry, err := NewTreeEntry(mode, name, sha)
	if err != nil {
		t.Fatalf("failed to create tree entry %q: %v", name, err)
	}
	return entry
}

func mustNewTree(t *testing.T, entries []TreeEntry) *Tree {
	t.Helper()
	tree, err := NewTree(entries)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	return tree
}

func assertTreeEntryEqual(t *testing.T, actual, expected TreeEntry) {
	t.Helper()
	if actual.Name != expected.Name {
		t.Errorf("entry name mismatch: expected %s, got %s", expected.Name, actual.Name)
	}
	if actual.Sha != expected.Sha {
		t.Errorf("entry sha mismatch: expected %x, got %x", expected.Sha, actual.Sha)
	}
	if actual.Mode != expected.Mode {
		t.Errorf("entry mode mismatch: expected %s, got %s", expected.Mode, actual.Mode)
	}
}

func assertAuthorEqual(t *testing.T, actual, expected Author) {
	t.Helper()
	if actual.Name != expected.Name || actual.Email != expected.Email {
		t.Errorf("author identity mismatch: expected %s, got %s", expected.String(), actual.String())
	}
	if !actual.Timestamp.Equal(expected.Timestamp) {
		t.Errorf("author timestamp mismatch: expected %s, got %s", expected.Timestamp, actual.Timestamp)
	}
}

func mustNewCommit(t *testing.T, treeSha [20]byte, parents [][20]byte, message string, author Author) *Commit {
	t.Helper()
	if message == "" {
		message = fmt.Sprintf("test commit at %s", time.Now().UTC().Format(time.RFC3339Nano))
	}
	return NewCommit(treeSha, parents, author, author, message)
}
