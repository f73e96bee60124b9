package objects

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewCommit_RootCommit(t *testing.T) {
	treeSha := randomSha(t)
	author := testAuthor("Alexander the Great", "alexander@great.com", time.Now().UTC())
	message := "Init commit"

	commit := mustNewCommit(t, treeSha, nil, message, author)

	if !commit.IsRoot() {
		t.Fatal("expected it to be a root commit")
	}
	if commit.TreeSha() != treeSha {
		t.Fatalf("expected tree sha %x, got %x", treeSha, commit.TreeSha())
	}
	if commit.Message() != message {
		t.Fatalf("expected message %s, got %s", message, commit.Message())
	}
	assertAuthorEqual(t, commit.Author(), author)
}

func TestNewCommit_WithParent(t *testing.T) {
	treeSha := randomSha(t)
	parentSha := randomSha(t)
	message := "Second commit"
	author := testAuthor("Ioannis Kapodistrias", "john.kapo@example.com", time.Now().UTC())

	commit := mustNewCommit(t, treeSha, [][20]byte{parentSha}, message, author)

	if commit.IsRoot() {
		t.Fatal("expected it to be a non-root commit (has parent)")
	}
	if len(commit.ParentShas()) != 1 || commit.ParentShas()[0] != parentSha {
		t.Fatalf("expected parent sha %x, got %v", parentSha, commit.ParentShas())
	}
}

func TestNewCommit_MergeWithMultipleParents(t *testing.T) {
	treeSha := randomSha(t)
	parents := [][20]byte{randomSha(t), randomSha(t)}
	author := testAuthor("Test User", "test@example.com", time.Now().UTC())

	commit := mustNewCommit(t, treeSha, parents, "Merge branches", author)

	if len(commit.ParentShas()) != 2 {
		t.Fatalf("expected 2 parents, got %d", len(commit.ParentShas()))
	}
}

func TestCommit_PayloadFormat(t *testing.T) {
	treeSha := randomSha(t)
	parentSha := randomSha(t)
	location := time.FixedZone("EST", -5*3600)
	author := testAuthor("Test User", "test@example.com", time.Now().In(location))
	message := "Test commit message"

	commit := mustNewCommit(t, treeSha, [][20]byte{parentSha}, message, author)
	content := string(commit.Payload())

	_, offset := author.Timestamp.Zone()
	timezone := formatTimezone(offset)

	expectedLines := []string{
		"tree " + hexOf(treeSha),
		"parent " + hexOf(parentSha),
		"author Test User <test@example.com> " + strconv.FormatInt(author.Timestamp.Unix(), 10) + " " + timezone,
		"committer Test User <test@example.com> " + strconv.FormatInt(author.Timestamp.Unix(), 10) + " " + timezone,
		"\n\n",
		message,
	}

	for _, line := range expectedLines {
		if !strings.Contains(content, line) {
			t.Fatalf("expected line [%s] to appear in content [%s]", line, content)
		}
	}
}

func TestCommit_MessageWithMultipleLines(t *testing.T) {
	treeSha := randomSha(t)
	author := testAuthor("Test User", "test@example.com", time.Now().UTC())
	message := "First line\n\nSecond paragraph\nThird line\n"

	commit := mustNewCommit(t, treeSha, nil, message, author)

	if commit.Message() != message {
		t.Fatalf("multi-line message not preserved. expected [%s] got [%s]", message, commit.Message())
	}
}

func TestCommit_MessageGetsTrailingNewline(t *testing.T) {
	treeSha := randomSha(t)
	author := testAuthor("Test User", "test@example.com", time.Now().UTC())
	commit := mustNewCommit(t, treeSha, nil, "no trailing newline", author)

	if !strings.HasSuffix(string(commit.Payload()), "\n") {
		t.Fatal("expected serialised commit to end in a newline")
	}
}

func TestParseCommit_RoundTrip(t *testing.T) {
	treeSha := randomSha(t)
	parents := [][20]byte{randomSha(t), randomSha(t)}
	author := testAuthor("Round Tripper", "rt@example.com", time.Now().UTC())
	original := mustNewCommit(t, treeSha, parents, "round trip\n", author)

	parsed, err := ParseCommit(original.Payload())
	if err != nil {
		t.Fatalf("failed to parse commit: %v", err)
	}

	if parsed.TreeSha() != original.TreeSha() {
		t.Errorf("tree sha mismatch")
	}
	if len(parsed.ParentShas()) != len(original.ParentShas()) {
		t.Fatalf("expected %d parents, got %d", len(original.ParentShas()), len(parsed.ParentShas()))
	}
	for i, p := range parsed.ParentShas() {
		if p != original.ParentShas()[i] {
			t.Errorf("parent %d mismatch", i)
		}
	}
	if parsed.Message() != original.Message() {
		t.Errorf("expected message %q, got %q", original.Message(), parsed.Message())
	}
	assertAuthorEqual(t, parsed.Author(), original.Author())
}

func TestParseCommit_RejectsMissingTree(t *testing.T) {
	_, err := ParseCommit([]byte("author a <a@b.com> 1 +0000\ncommitter a <a@b.com> 1 +0000\n\nmsg\n"))
	if err == nil {
		t.Fatal("expected error for missing tree line")
	}
}

// TestParseCommit_RejectsMissingAuthorOrCommitter verifies a commit payload
// missing either identity line is rejected rather than parsed into a
// zero-value Author.
func TestParseCommit_RejectsMissingAuthorOrCommitter(t *testing.T) {
	treeLine := "tree " + hexOf(randomSha(t)) + "\n"

	_, err := ParseCommit([]byte(treeLine + "committer a <a@b.com> 1 +0000\n\nmsg\n"))
	if err == nil {
		t.Fatal("expected error for missing author line")
	}

	_, err = ParseCommit([]byte(treeLine + "author a <a@b.com> 1 +0000\n\nmsg\n"))
	if err == nil {
		t.Fatal("expected error for missing committer line")
	}
}

func hexOf(sha [20]byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 0, 40)
	for _, b := range sha {
		out = append(out, hexDigits[b>>4], hexDigits[b&0xf])
	}
	return string(out)
}
