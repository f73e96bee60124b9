package cmd

import (
	"fmt"

	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/index"
	"github.com/spf13/cobra"
)

var writeTreeCmd = &cobra.Command{
	Use:   "write-tree",
	Short: "Write the current index as a tree object",
	Long: `write-tree materializes the directories the staged index currently needs
but doesn't already have a valid cached tree for, deepest first, and prints
the resulting root tree's sha. Re-running it with nothing staged since the
last run writes no new objects.`,
	SilenceUsage: true,
	Args:         maximumArgs(0),
	RunE:         runWriteTree,
}

func init() {
	rootCmd.AddCommand(writeTreeCmd)
}

func runWriteTree(cmd *cobra.Command, args []string) error {
	repo, err := currentRepository()
	if err != nil {
		return err
	}

	idx, err := index.ReadFile(repo.IndexPath())
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	sha, err := idx.WriteTree(repo.Store())
	if err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}

	if err := idx.WriteFile(repo.IndexPath()); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), codec.ShaToHex(sha))
	return nil
}
