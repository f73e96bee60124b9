package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rtandon/gfg/internal/gfgerrors"
	"github.com/spf13/cobra"
)

// rootCmd defines the base command for the gfg CLI. All subcommands (init,
// add, commit, etc.) register under this root. Uses cobra for command
// parsing, flag handling, and help generation.
var rootCmd = &cobra.Command{
	Use:   "gfg",
	Short: "A byte-compatible reimplementation of Git's object database and index",
	Long: `gfg is a from-scratch reimplementation of Git's object database and index:
init, hash-object, cat-file, add, write-tree, commit-tree, commit and log,
producing loose objects and an index file byte-compatible with upstream Git.`,
	SilenceErrors: true,
}

// Execute runs the root command, formatting any returned error as a
// "fatal: ..." line on stderr and exiting with the appropriate code. Only
// this boundary ever writes to stderr or calls os.Exit; internal packages
// and RunE handlers just return errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %s\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps repository/object-database errors to 128, matching
// upstream Git, and everything else (usage errors, generic failures) to 1.
func exitCodeFor(err error) int {
	repositoryErrors := []error{
		gfgerrors.ErrNotARepository,
		gfgerrors.ErrCorruptObject,
		gfgerrors.ErrObjectNotFound,
		gfgerrors.ErrAmbiguousPrefix,
		gfgerrors.ErrUnsupportedExtension,
		gfgerrors.ErrIdentityUnavailable,
		gfgerrors.ErrPathNotFound,
	}
	for _, sentinel := range repositoryErrors {
		if errors.Is(err, sentinel) {
			return 128
		}
	}
	return 1
}
