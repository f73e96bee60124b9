package cmd

import (
	"strings"
	"testing"

	"github.com/rtandon/gfg/testutils"
)

// TestCatFileCommand_TypeAndPrettyPrintBlob verifies -t and -p on a blob.
func TestCatFileCommand_TypeAndPrettyPrintBlob(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)

	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("hello\n"))

	blobSha := runHashObjectW(t, "a.txt")

	typeOut := runCatFileHelper(t, "-t", blobSha)
	if strings.TrimSpace(typeOut) != "blob" {
		t.Errorf("expected type blob, got %q", typeOut)
	}

	prettyOut := runCatFileHelper(t, "-p", blobSha)
	if prettyOut != "hello\n" {
		t.Errorf("expected pretty-print to be raw content, got %q", prettyOut)
	}
}

// TestCatFileCommand_PrettyPrintTree verifies -p on a tree shows mode/type/sha/name lines.
func TestCatFileCommand_PrettyPrintTree(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)

	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("a\n"))
	runAddCmd(t, repoPath, "a.txt")
	treeSha := runWriteTreeCmd(t, repoPath)

	prettyOut := runCatFileHelper(t, "-p", treeSha)
	if !strings.Contains(prettyOut, "blob") || !strings.Contains(prettyOut, "a.txt") {
		t.Errorf("expected tree pretty-print to list a.txt as a blob entry, got: %s", prettyOut)
	}
}

// TestCatFileCommand_GoldenTreeListing pins cat-file -p on a tree against the
// literal upstream Git listing for a known two-entry tree (spec scenario 3),
// so a wrong mode/type/sha/name column or sort order fails against a fixed
// external value.
func TestCatFileCommand_GoldenTreeListing(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)
	withIdentityEnv(t)

	testutils.CreateTestFile(t, repoPath, "test_file_1", []byte("1234\n"))
	testutils.CreateTestFile(t, repoPath, "test_dir/test_file_2", []byte("4321\n"))
	runAddCmd(t, repoPath, "test_file_1", "test_dir")
	runCommitCmd(t, "scenario 3")

	treeSha := runWriteTreeCmd(t, repoPath)
	prettyOut := runCatFileHelper(t, "-p", treeSha)

	// "test_dir" sorts as "test_dir/", which is below "test_file_1" ('d' < 'f').
	want := "040000 tree 031d5285a4c23b0fd4f6f0bdbe6cbce080ea0d9b\ttest_dir\n" +
		"100644 blob 81c545efebe5f57d4cab2ba9ec294c4b0cadf672\ttest_file_1\n"
	if prettyOut != want {
		t.Fatalf("expected tree listing:\n%s\ngot:\n%s", want, prettyOut)
	}
}

// TestCatFileCommand_PositionalTypeForm verifies the plain-git positional
// "cat-file <type> <object>" form (no flag) asserts the type and prints the
// raw payload, matching the --assert-type flag form.
func TestCatFileCommand_PositionalTypeForm(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)

	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("hello\n"))
	blobSha := runHashObjectW(t, "a.txt")

	resetCatFileFlags()
	testRootCmd := createTestRootCmd(catFileCmd)
	stdout := captureStdout(testRootCmd)
	testRootCmd.SetArgs([]string{"cat-file", "blob", blobSha})
	if err := testRootCmd.Execute(); err != nil {
		t.Fatalf("cat-file blob <object> failed: %v", err)
	}
	if stdout.String() != "hello\n" {
		t.Errorf("expected raw payload, got %q", stdout.String())
	}

	resetCatFileFlags()
	testRootCmd = createTestRootCmd(catFileCmd)
	captureStdout(testRootCmd)
	captureStderr(testRootCmd)
	testRootCmd.SetArgs([]string{"cat-file", "tree", blobSha})
	if err := testRootCmd.Execute(); err == nil {
		t.Fatal("expected asserting the wrong type via the positional form to fail")
	}
}

// TestCatFileCommand_AssertTypeMismatch verifies asserting the wrong type fails.
func TestCatFileCommand_AssertTypeMismatch(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)

	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("a\n"))
	blobSha := runHashObjectW(t, "a.txt")

	resetCatFileFlags()
	testRootCmd := createTestRootCmd(catFileCmd)
	captureStdout(testRootCmd)
	captureStderr(testRootCmd)
	testRootCmd.SetArgs([]string{"cat-file", "--assert-type", "tree", blobSha})

	if err := testRootCmd.Execute(); err == nil {
		t.Fatal("expected asserting the wrong type to fail")
	}
}

// TestCatFileCommand_UnresolvableObject verifies the "not a valid object name" wording.
func TestCatFileCommand_UnresolvableObject(t *testing.T) {
	repoPath := t.TempDir()
	initRepo(t, repoPath)
	changeToRepoDir(t, repoPath)

	resetCatFileFlags()
	testRootCmd := createTestRootCmd(catFileCmd)
	captureStdout(testRootCmd)
	captureStderr(testRootCmd)
	testRootCmd.SetArgs([]string{"cat-file", "-p", "deadbeef"})

	err := testRootCmd.Execute()
	if err == nil {
		t.Fatal("expected cat-file to fail on an unresolvable object")
	}
	if !strings.Contains(err.Error(), "not a valid object name deadbeef") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func runHashObjectW(t *testing.T, filePath string) string {
	t.Helper()
	testRootCmd := createTestRootCmd(hashObjectCmd)
	stdout := captureStdout(testRootCmd)
	testRootCmd.SetArgs([]string{"hash-object", "-w", filePath})
	if err := testRootCmd.Execute(); err != nil {
		t.Fatalf("hash-object -w failed: %v", err)
	}
	return strings.TrimSpace(stdout.String())
}

func runCatFileHelper(t *testing.T, flag, object string) string {
	t.Helper()
	resetCatFileFlags()
	testRootCmd := createTestRootCmd(catFileCmd)
	stdout := captureStdout(testRootCmd)
	testRootCmd.SetArgs([]string{"cat-file", flag, object})
	if err := testRootCmd.Execute(); err != nil {
		t.Fatalf("cat-file %s failed: %v", flag, err)
	}
	return stdout.String()
}

// resetCatFileFlags clears catFileCmd's bound globals before each use, since
// a pflag.FlagSet does not reset a flag's value just because it's absent
// from the next invocation's args.
func resetCatFileFlags() {
	catFileShowType = false
	catFilePrettyPrint = false
	catFileAssertType = ""
}
