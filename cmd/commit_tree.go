package cmd

import (
	"fmt"
	"time"

	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/identity"
	"github.com/rtandon/gfg/internal/objects"
	"github.com/spf13/cobra"
)

var commitTreeCmd = &cobra.Command{
	Use:   "commit-tree <tree> -m <msg>",
	Short: "Create a new commit object from a tree and parent(s)",
	Long: `commit-tree builds a commit object pointing at <tree>, with zero or more
parents given via repeated -p flags, and prints the new commit's sha.`,
	SilenceUsage: true,
	Args:         exactArgs(1),
	RunE:         runCommitTree,
}

var commitTreeMessage string
var commitTreeParents []string

func init() {
	rootCmd.AddCommand(commitTreeCmd)
	commitTreeCmd.Flags().StringVarP(&commitTreeMessage, "message", "m", "", "Commit message")
	commitTreeCmd.Flags().StringArrayVarP(&commitTreeParents, "parent", "p", nil, "Parent commit (repeatable)")
	commitTreeCmd.MarkFlagRequired("message")
}

func runCommitTree(cmd *cobra.Command, args []string) error {
	repo, err := currentRepository()
	if err != nil {
		return err
	}
	store := repo.Store()

	treeSha, err := store.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("not a valid object name %s: %w", args[0], err)
	}

	parentShas := make([][20]byte, 0, len(commitTreeParents))
	for _, p := range commitTreeParents {
		sha, err := store.Resolve(p)
		if err != nil {
			return fmt.Errorf("not a valid object name %s: %w", p, err)
		}
		parentShas = append(parentShas, sha)
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

	commit := objects.NewCommit(treeSha, parentShas, author, committer, commitTreeMessage)
	sha, err := store.Write(commit)
	if err != nil {
		return fmt.Errorf("failed to write commit: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), codec.ShaToHex(sha))
	return nil
}

// resolveAuthor and resolveCommitter accept a possibly-nil ConfigReader:
// identity resolution falls back cleanly to environment variables alone
// when .git/config can't be read.
func resolveAuthor(cfg identity.ConfigReader, when time.Time) (objects.Author, error) {
	name, email, err := identity.NewAuthorProvider(cfg).Resolve()
	if err != nil {
		return objects.Author{}, err
	}
	return objects.Author{Name: name, Email: email, Timestamp: when}, nil
}

func resolveCommitter(cfg identity.ConfigReader, when time.Time) (objects.Author, error) {
	name, email, err := identity.NewCommitterProvider(cfg).Resolve()
	if err != nil {
		return objects.Author{}, err
	}
	return objects.Author{Name: name, Email: email, Timestamp: when}, nil
}
