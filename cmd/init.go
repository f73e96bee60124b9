package cmd

import (
	"fmt"

	"github.com/rtandon/gfg/internal/repository"
	"github.com/rtandon/gfg/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new gfg repository",
	Long: `The 'init' command sets up a new repository in the given directory (or the
current directory if none is given). It creates a .git directory with the
objects, refs and branches layout, HEAD pointing at refs/heads/master, and a
minimal config. Running init again on an existing repository reinitializes
it without touching existing data.`,
	SilenceUsage: true,
	Args:         maximumArgs(1),
	RunE:         runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// maximumArgs validates command receives at most n positional arguments.
// Returns error with usage help if argument limit exceeded.
func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%s command accepts at most %d arg(s), received %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// runInit executes repository initialization at the specified or current
// directory, printing the exact wording upstream Git uses for a fresh init
// versus a reinit.
func runInit(cmd *cobra.Command, args []string) error {
	dirPath := "."
	if len(args) > 0 {
		dirPath = args[0]
	}

	repo, initialized, err := repository.Init(dirPath)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}

	verb := "Reinitialized existing"
	if initialized {
		verb = "Initialized empty"
	}
	cmd.Printf("%s Git repository in %s\n", verb, utils.BuildDirPath(repo.GitDir))
	return nil
}
