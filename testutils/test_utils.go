// Package testutils collects filesystem helpers shared across this
// module's package-level tests: scratch repository scaffolding and file
// existence assertions.
package testutils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rtandon/gfg/internal/constants"
)

// RandomString generates a random hex string of n bytes.
func RandomString(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// RandomHash generates a random 40-character SHA-1 hash.
func RandomHash() string {
	return RandomString(constants.HashByteLength)
}

// SetupTestRepoWithGitDir creates a temporary directory with .git/objects
// structure. Useful for tests that need the object store layout but not a
// full repository initialization.
func SetupTestRepoWithGitDir(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	gitDir := filepath.Join(repoPath, constants.GitDir, constants.Objects)

	if err := os.MkdirAll(gitDir, constants.DirPerms); err != nil {
		t.Fatalf("Failed to create %s/%s: %v", constants.GitDir, constants.Objects, err)
	}

	return repoPath
}

// SetupTestRepoWithInit creates a fully initialized .git repository
// structure: objects/, refs/heads/, refs/tags/, and HEAD.
func SetupTestRepoWithInit(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	gitDir := filepath.Join(repoPath, constants.GitDir)

	dirs := []string{
		filepath.Join(gitDir, constants.Objects),
		filepath.Join(gitDir, constants.Refs, constants.Heads),
		filepath.Join(gitDir, constants.Refs, constants.Tags),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, constants.DirPerms); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	headPath := filepath.Join(gitDir, constants.Head)
	headContent := []byte(constants.DefaultRefPrefix + constants.DefaultBranch + "\n")
	if err := os.WriteFile(headPath, headContent, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create %s file: %v", constants.Head, err)
	}

	return repoPath
}

// CreateTestFile creates a file with given content in the specified
// directory, returning the full path to the created file.
func CreateTestFile(t *testing.T, dir, filename string, content []byte) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(filePath), constants.DirPerms); err != nil {
		t.Fatalf("Failed to create parent directory for %s: %v", filename, err)
	}
	if err := os.WriteFile(filePath, content, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}

	return filePath
}

// AssertFileExists fails the test if no file exists at path.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected file to exist at %s", path)
	}
}

// AssertFileNotExists fails the test if a file exists at path.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to NOT exist at %s", path)
	}
}

// AssertDirExists fails the test if path isn't an existing directory.
func AssertDirExists(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected directory to exist at %s", path)
		return
	}
	if err != nil {
		t.Errorf("Failed to stat directory %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory, but it's a file", path)
	}
}

// AssertRepositoryStructure validates a complete .git directory: objects/,
// refs/heads/, refs/tags/, branches/ exist and HEAD points at the default
// branch.
func AssertRepositoryStructure(t *testing.T, repoPath string) {
	t.Helper()

	gitDir := filepath.Join(repoPath, constants.GitDir)
	AssertDirExists(t, gitDir)

	expectedDirs := []string{
		constants.Objects,
		constants.Refs,
		filepath.Join(constants.Refs, constants.Heads),
		filepath.Join(constants.Refs, constants.Tags),
		constants.Branches,
	}
	for _, dir := range expectedDirs {
		AssertDirExists(t, filepath.Join(gitDir, dir))
	}

	headPath := filepath.Join(gitDir, constants.Head)
	AssertFileExists(t, headPath)

	content, err := os.ReadFile(headPath)
	if err != nil {
		t.Fatalf("Failed to read %s file: %v", constants.Head, err)
	}

	expectedContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"
	if string(content) != expectedContent {
		t.Errorf("%s content = %q, want %q", constants.Head, content, expectedContent)
	}
}
