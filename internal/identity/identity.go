// Package identity resolves the author/committer name and email used when
// writing commits: environment variables first, then repository config,
// then failure.
package identity

import (
	"fmt"
	"os"

	"github.com/rtandon/gfg/internal/gfgerrors"
)

// Provider resolves a (name, email) identity pair.
type Provider interface {
	Resolve() (name, email string, err error)
}

// ConfigReader is the narrow slice of internal/repository's config reader
// identity needs, kept as an interface to avoid an import cycle (repository
// does not need to know about identity).
type ConfigReader interface {
	Get(section, key string) (string, bool)
}

// EnvProvider resolves identity from GIT_<ROLE>_NAME/EMAIL environment
// variables, falling back to user.name/user.email in repository config.
type EnvProvider struct {
	NameVar, EmailVar string
	Config            ConfigReader
}

// NewAuthorProvider resolves the commit author identity.
func NewAuthorProvider(cfg ConfigReader) *EnvProvider {
	return &EnvProvider{NameVar: "GIT_AUTHOR_NAME", EmailVar: "GIT_AUTHOR_EMAIL", Config: cfg}
}

// NewCommitterProvider resolves the commit committer identity.
func NewCommitterProvider(cfg ConfigReader) *EnvProvider {
	return &EnvProvider{NameVar: "GIT_COMMITTER_NAME", EmailVar: "GIT_COMMITTER_EMAIL", Config: cfg}
}

// Resolve tries the environment variables first, falling back to
// user.name/user.email read from repository config, in that order.
func (p *EnvProvider) Resolve() (string, string, error) {
	name := os.Getenv(p.NameVar)
	email := os.Getenv(p.EmailVar)
	if name != "" && email != "" {
		return name, email, nil
	}

	if p.Config != nil {
		if name == "" {
			if v, ok := p.Config.Get("user", "name"); ok {
				name = v
			}
		}
		if email == "" {
			if v, ok := p.Config.Get("user", "email"); ok {
				email = v
			}
		}
	}

	if name == "" || email == "" {
		return "", "", fmt.Errorf("%w: set %s/%s or user.name/user.email in .git/config", gfgerrors.ErrIdentityUnavailable, p.NameVar, p.EmailVar)
	}
	return name, email, nil
}

// StaticProvider returns a fixed identity, for tests and callers that
// already know it.
type StaticProvider struct {
	Name, Email string
}

func (p StaticProvider) Resolve() (string, string, error) {
	return p.Name, p.Email, nil
}
