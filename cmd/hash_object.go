package cmd

import (
	"fmt"
	"io"

	"github.com/rtandon/gfg/internal/codec"
	"github.com/rtandon/gfg/internal/objects"
	"github.com/spf13/cobra"
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object (--stdin | <filepath>)",
	Short: "Compute a blob's object hash and optionally store it",
	Long: `Compute the object hash (SHA-1) for a file's content as a blob.
Optionally write the resulting blob into the object database.

Examples:
  # Compute hash without storing
  gfg hash-object myfile.txt

  # Compute hash and store in .git/objects
  gfg hash-object -w myfile.txt

  # Read payload from standard input instead of a file
  echo hello | gfg hash-object --stdin`,
	SilenceUsage: true,
	Args:         hashObjectArgs,
	RunE:         runHashObject,
}

var writeFlag bool
var stdinFlag bool

func init() {
	rootCmd.AddCommand(hashObjectCmd)
	hashObjectCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "Write the object into the object database")
	hashObjectCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read the blob's content from standard input")
}

// hashObjectArgs requires exactly one filepath argument, unless --stdin was
// given, in which case no positional argument is allowed.
func hashObjectArgs(cmd *cobra.Command, args []string) error {
	want := 1
	if stdinFlag {
		want = 0
	}
	if len(args) != want {
		cmd.SilenceUsage = false
		return fmt.Errorf("hash-object command requires exactly %d argument(s), received %d", want, len(args))
	}
	return nil
}

// exactArgs validates command receives exactly n positional arguments.
// enables usage printing in case of error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.SilenceUsage = false
			return fmt.Errorf("command requires exactly %d argument(s), received %d", n, len(args))
		}
		return nil
	}
}

// runHashObject computes a blob's hash and, with -w, stores it.
func runHashObject(cmd *cobra.Command, args []string) error {
	var blob *objects.Blob
	if stdinFlag {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read standard input: %w", err)
		}
		blob = objects.NewBlob(content)
	} else {
		var err error
		blob, err = objects.NewBlobFromFile(args[0])
		if err != nil {
			return err
		}
	}

	sha := objects.Hash(blob)
	fmt.Fprintln(cmd.OutOrStdout(), codec.ShaToHex(sha))

	if writeFlag {
		repo, err := currentRepository()
		if err != nil {
			return err
		}
		if _, err := repo.Store().Write(blob); err != nil {
			return fmt.Errorf("failed to store object: %w", err)
		}
	}

	return nil
}
