package cmd

import (
	"fmt"
	"os"

	"github.com/rtandon/gfg/internal/repository"
)

// currentRepository discovers the repository enclosing the current working
// directory. Every command but init needs this.
func currentRepository() (*repository.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	return repository.Discover(cwd)
}
