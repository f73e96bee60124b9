package cmd

import (
	"strings"
	"testing"

	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/objects"
	"github.com/rtandon/gfg/testutils"
)

func withIdentityEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Ash Ketchum")
	t.Setenv("GIT_AUTHOR_EMAIL", "ash@pallet.town")
	t.Setenv("GIT_COMMITTER_NAME", "Ash Ketchum")
	t.Setenv("GIT_COMMITTER_EMAIL", "ash@pallet.town")
}

// TestCommitTreeCommand_CreatesCommit verifies the basic happy path with no parents.
func TestCommitTreeCommand_CreatesCommit(t *testing.T) {
	repoPath := t.TempDir()
	repo := initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)
	withIdentityEnv(t)

	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("a\n"))
	runAddCmd(t, repoPath, "a.txt")
	treeSha := runWriteTreeCmd(t, repoPath)

	testRootCmd := createTestRootCmd(commitTreeCmd)
	stdout := captureStdout(testRootCmd)
	testRootCmd.SetArgs([]string{"commit-tree", treeSha, "-m", "root commit"})
	if err := testRootCmd.Execute(); err != nil {
		t.Fatalf("commit-tree failed: %v", err)
	}

	commitHex := strings.TrimSpace(stdout.String())
	sha, err := codec.HexToSha(commitHex)
	if err != nil {
		t.Fatalf("invalid sha printed: %v", err)
	}
	obj, err := repo.Store().Read(sha)
	if err != nil {
		t.Fatalf("failed to read back commit: %v", err)
	}
	commit, ok := obj.(*objects.Commit)
	if !ok {
		t.Fatalf("expected a commit object, got %T", obj)
	}
	if commit.IsRoot() == false {
		t.Error("expected commit with no -p flags to be a root commit")
	}
	// The serialised message ends with a newline, and parsing keeps the
	// message verbatim, so the newline is part of the read-back message.
	if commit.Message() != "root commit\n" {
		t.Errorf("expected message %q, got %q", "root commit\n", commit.Message())
	}
}

// TestCommitTreeCommand_InvalidTree verifies the exact "not a valid object name" wording.
func TestCommitTreeCommand_InvalidTree(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)
	withIdentityEnv(t)

	testRootCmd := createTestRootCmd(commitTreeCmd)
	captureStdout(testRootCmd)
	captureStderr(testRootCmd)
	testRootCmd.SetArgs([]string{"commit-tree", "deadbeef", "-m", "oops"})

	err := testRootCmd.Execute()
	if err == nil {
		t.Fatal("expected commit-tree to fail on an unresolvable tree")
	}
	if !strings.Contains(err.Error(), "not a valid object name deadbeef") {
		t.Errorf("unexpected error message: %v", err)
	}
}

// TestCommitTreeCommand_RequiresMessage verifies -m is mandatory.
func TestCommitTreeCommand_RequiresMessage(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)

	testRootCmd := createTestRootCmd(commitTreeCmd)
	captureStdout(testRootCmd)
	captureStderr(testRootCmd)
	testRootCmd.SetArgs([]string{"commit-tree", "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"})

	if err := testRootCmd.Execute(); err == nil {
		t.Fatal("expected commit-tree without -m to fail")
	}
}
