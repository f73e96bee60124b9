// Package repository implements the repository boundary: discovering the
// enclosing .git directory, initialising a new one, and reading/writing
// HEAD.
package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rtandon/gfg/internal/constants"
	"github.com/rtandon/gfg/internal/gfgerrors"
	"github.com/rtandon/gfg/internal/store"
)

// Repository is a resolved .git directory: GitDir is its absolute path,
// WorkTree is its parent (the project's working directory).
type Repository struct {
	WorkTree string
	GitDir   string
}

// Discover walks upward from startDir looking for a .git directory, matching
// real Git's repository discovery.
func Discover(startDir string) (*Repository, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	for {
		gitDir := filepath.Join(dir, constants.GitDir)
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return &Repository{WorkTree: dir, GitDir: gitDir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w: %s", gfgerrors.ErrNotARepository, constants.GitDir)
		}
		dir = parent
	}
}

// Init creates a new repository at path, or reports that one already
// exists there. initialized reports whether this call created a fresh
// repository (false means path already held a .git directory).
func Init(path string) (repo *Repository, initialized bool, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve path: %w", err)
	}
	gitDir := filepath.Join(absPath, constants.GitDir)

	if info, statErr := os.Stat(gitDir); statErr == nil && info.IsDir() {
		return &Repository{WorkTree: absPath, GitDir: gitDir}, false, nil
	}

	var success bool
	defer func() {
		if !success {
			cleanup(gitDir)
		}
	}()

	directories := []string{
		gitDir,
		filepath.Join(gitDir, constants.Objects),
		filepath.Join(gitDir, constants.Refs, constants.Heads),
		filepath.Join(gitDir, constants.Refs, constants.Tags),
		filepath.Join(gitDir, constants.Branches),
	}
	for _, dir := range directories {
		if err := os.MkdirAll(dir, constants.DirPerms); err != nil {
			return nil, false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	headContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"
	if err := os.WriteFile(filepath.Join(gitDir, constants.Head), []byte(headContent), constants.FilePerms); err != nil {
		return nil, false, fmt.Errorf("failed to create HEAD file: %w", err)
	}

	if err := os.WriteFile(filepath.Join(gitDir, constants.DescriptionFile), []byte(constants.DefaultDescription), constants.FilePerms); err != nil {
		return nil, false, fmt.Errorf("failed to create description file: %w", err)
	}

	cfg := NewConfig()
	cfg.Set("core", "repositoryformatversion", "0")
	cfg.Set("core", "filemode", "false")
	cfg.Set("core", "bare", "false")
	cfg.Set("core", "logallrefupdates", "true")
	if err := WriteConfigFile(filepath.Join(gitDir, constants.ConfigFile), cfg); err != nil {
		return nil, false, err
	}

	success = true
	return &Repository{WorkTree: absPath, GitDir: gitDir}, true, nil
}

func cleanup(gitDir string) {
	if _, err := os.Stat(gitDir); err == nil {
		slog.Debug("cleaning up partial repository initialization", "path", gitDir)
		if err := os.RemoveAll(gitDir); err != nil {
			slog.Warn("failed to clean up repository directory", "path", gitDir, "error", err)
		}
	}
}

// Config reads this repository's .git/config.
func (r *Repository) Config() (*Config, error) {
	return ReadConfigFile(filepath.Join(r.GitDir, constants.ConfigFile))
}

// HeadRef returns HEAD's current target: either a symbolic ref path like
// "refs/heads/master" (symbolic true), or a 40-hex commit sha (symbolic
// false) for a detached HEAD.
func (r *Repository) HeadRef() (target string, symbolic bool, err error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, constants.Head))
	if err != nil {
		return "", false, fmt.Errorf("failed to read HEAD: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(content, "ref: "); ok {
		return ref, true, nil
	}
	return content, false, nil
}

// HeadCommit resolves HEAD to a commit sha, following one level of symbolic
// ref. Returns ok=false if the branch HEAD points at has no commits yet.
func (r *Repository) HeadCommit() (sha string, ok bool, err error) {
	target, symbolic, err := r.HeadRef()
	if err != nil {
		return "", false, err
	}
	if !symbolic {
		return target, true, nil
	}

	refPath := filepath.Join(r.GitDir, filepath.FromSlash(target))
	data, err := os.ReadFile(refPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read ref %s: %w", target, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// UpdateHead writes sha to whatever ref HEAD currently points at (following
// one level of symbolic ref), creating it if necessary.
func (r *Repository) UpdateHead(sha string) error {
	target, symbolic, err := r.HeadRef()
	if err != nil {
		return err
	}
	if !symbolic {
		return r.writeHeadDetached(sha)
	}

	refPath := filepath.Join(r.GitDir, filepath.FromSlash(target))
	if err := os.MkdirAll(filepath.Dir(refPath), constants.DirPerms); err != nil {
		return fmt.Errorf("failed to create ref directory: %w", err)
	}
	if err := os.WriteFile(refPath, []byte(sha+"\n"), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to update ref %s: %w", target, err)
	}
	return nil
}

func (r *Repository) writeHeadDetached(sha string) error {
	path := filepath.Join(r.GitDir, constants.Head)
	if err := os.WriteFile(path, []byte(sha+"\n"), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to update HEAD: %w", err)
	}
	return nil
}

// IndexPath is the path of this repository's staging-area index file.
func (r *Repository) IndexPath() string {
	return filepath.Join(r.GitDir, constants.IndexFile)
}

// Store returns this repository's loose object database.
func (r *Repository) Store() *store.Store {
	return store.New(r.GitDir)
}
