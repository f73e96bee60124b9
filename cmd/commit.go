package cmd

import (
	"fmt"
	"time"

	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/identity"
	"github.com/rtandon/gfg/internal/index"
	"github.com/rtandon/gfg/internal/objects"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit -m <msg>",
	Short: "Record a new commit from the current index",
	Long: `commit writes the current index as a tree (write-tree), builds a new
commit with HEAD's current commit as its sole parent (none if HEAD has no
commit yet), writes it to the object database, and advances HEAD to point
at it.`,
	SilenceUsage: true,
	Args:         exactArgs(0),
	RunE:         runCommit,
}

var commitMessage string

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) error {
	repo, err := currentRepository()
	if err != nil {
		return err
	}
	objectStore := repo.Store()

	idx, err := index.ReadFile(repo.IndexPath())
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	treeSha, err := idx.WriteTree(objectStore)
	if err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}
	if err := idx.WriteFile(repo.IndexPath()); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	var parentShas [][20]byte
	if headHex, ok, err := repo.HeadCommit(); err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	} else if ok {
		parentSha, err := codec.HexToSha(headHex)
		if err != nil {
			return fmt.Errorf("failed to parse HEAD commit sha: %w", err)
		}
		parentShas = [][20]byte{parentSha}
	}

	var cfgReader identity.ConfigReader
	if cfg, cfgErr := repo.Config(); cfgErr == nil {
		cfgReader = cfg
	}
	now := time.Now()
	author, err := resolveAuthor(cfgReader, now)
	if err != nil {
		return err
	}
	committer, err := resolveCommitter(cfgReader, now)
	if err != nil {
		return err
	}

	commit := objects.NewCommit(treeSha, parentShas, author, committer, commitMessage)
	commitSha, err := objectStore.Write(commit)
	if err != nil {
		return fmt.Errorf("failed to write commit: %w", err)
	}

	if err := repo.UpdateHead(codec.ShaToHex(commitSha)); err != nil {
		return fmt.Errorf("failed to update HEAD: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), codec.ShaToHex(commitSha))
	return nil
}
