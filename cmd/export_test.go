package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/rtandon/gfg/testutils"
	"github.com/spf13/cobra"
)

// createTestRootCmd creates a fresh root command with a single subcommand
// attached, isolating each test from rootCmd's global flag/command state.
func createTestRootCmd(cmd *cobra.Command) *cobra.Command {
	testRootCmd := &cobra.Command{Use: "gfg"}
	testRootCmd.AddCommand(cmd)
	return testRootCmd
}

// captureStdout returns command stdout output as string.
func captureStdout(cmd *cobra.Command) *bytes.Buffer {
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return &stdout
}

// captureStderr returns command stderr output as string.
func captureStderr(cmd *cobra.Command) *bytes.Buffer {
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	return &stderr
}

// assertRepositoryStructure verifies .git directory structure and HEAD file.
func assertRepositoryStructure(t *testing.T, repoPath string) {
	t.Helper()
	testutils.AssertRepositoryStructure(t, repoPath)
}

// changeToRepoDir changes working directory to repo path and registers cleanup.
func changeToRepoDir(t *testing.T, repoPath string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	if err := os.Chdir(repoPath); err != nil {
		t.Fatalf("Failed to change to directory %s: %v", repoPath, err)
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
	})
}
