package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rtandon/gfg/internal/gfgerrors"
	"github.com/rtandon/gfg/internal/index"
	"github.com/rtandon/gfg/internal/objects"
	"github.com/rtandon/gfg/internal/store"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <pathspec>...",
	Short: "Stage file contents into the index",
	Long: `Add writes a blob for each given file's current content into the object
database and records its path, mode and sha in the index, ready for
write-tree/commit.`,
	SilenceUsage: true,
	Args:         minimumArgs(1),
	RunE:         runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

// pathspecError renders as the exact message Git prints for an add pathspec
// that matches no file, while still unwrapping to ErrPathNotFound so the
// CLI boundary maps it to the repository-error exit code.
type pathspecError struct {
	pathspec string
}

func (e pathspecError) Error() string {
	return fmt.Sprintf("pathspec '%s' did not match any files", e.pathspec)
}

func (e pathspecError) Unwrap() error {
	return gfgerrors.ErrPathNotFound
}

// minimumArgs validates command receives at least n positional arguments.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			cmd.SilenceUsage = false
			return fmt.Errorf("add command requires at least %d argument(s), received %d", n, len(args))
		}
		return nil
	}
}

// runAdd stages each pathspec: files are staged directly, directories are
// walked recursively.
func runAdd(cmd *cobra.Command, args []string) error {
	repo, err := currentRepository()
	if err != nil {
		return err
	}

	idx, err := index.ReadFile(repo.IndexPath())
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	objectStore := repo.Store()

	for _, pathspec := range args {
		absPath := pathspec
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(repo.WorkTree, pathspec)
		}

		if _, statErr := os.Stat(absPath); statErr != nil {
			if os.IsNotExist(statErr) {
				return pathspecError{pathspec: pathspec}
			}
			return fmt.Errorf("failed to stat %s: %w", pathspec, statErr)
		}

		walkErr := filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			return stageFile(idx, objectStore, repo.WorkTree, path)
		})
		if walkErr != nil {
			return fmt.Errorf("failed to add %s: %w", pathspec, walkErr)
		}
	}

	if err := idx.WriteFile(repo.IndexPath()); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// stageFile blobs absPath's current content, writes it to the object
// database, and records the resulting entry in idx.
func stageFile(idx *index.Index, objectStore *store.Store, workTree, absPath string) error {
	blob, err := objects.NewBlobFromFile(absPath)
	if err != nil {
		return err
	}
	sha, err := objectStore.Write(blob)
	if err != nil {
		return fmt.Errorf("failed to store blob for %s: %w", absPath, err)
	}

	relPath, err := filepath.Rel(workTree, absPath)
	if err != nil {
		return fmt.Errorf("failed to resolve relative path for %s: %w", absPath, err)
	}
	relPath = filepath.ToSlash(relPath)

	entry, err := index.NewEntryFromFile(relPath, absPath, sha)
	if err != nil {
		return err
	}
	idx.AddEntry(*entry)
	return nil
}
