package constants

import "os"

// Command name constants used in tests and error messages.
// Cobra Use fields remain inline for CLI discoverability.
const (
	InitCmdName       = "init"
	AddCmdName        = "add"
	HashObjectCmdName = "hash-object"
	CatFileCmdName    = "cat-file"
	WriteTreeCmdName  = "write-tree"
	CommitTreeCmdName = "commit-tree"
	CommitCmdName     = "commit"
	LogCmdName        = "log"
)

// Repository directory and file names define the .git metadata structure.
const (
	// GitDir is the repository metadata directory.
	GitDir = ".git"

	// Objects stores content-addressable objects (blobs, trees, commits).
	Objects = "objects"

	// Refs contains branch and tag references.
	Refs = "refs"

	// Heads stores branch pointers under refs/.
	Heads = "heads"

	// Tags stores tag pointers under refs/.
	Tags = "tags"

	// Branches is an empty directory Git historically ships alongside refs/.
	Branches = "branches"

	// Head points to current branch or detached commit.
	Head = "HEAD"

	// IndexFile is the staging area file name.
	IndexFile = "index"

	// ConfigFile is the repository-local configuration file name.
	ConfigFile = "config"

	// DescriptionFile carries the repository's gitweb description.
	DescriptionFile = "description"
)

// Default repository values.
const (
	// DefaultBranch is the initial branch name for new repositories.
	DefaultBranch = "master"

	// DefaultRefPrefix is prepended to branch names in HEAD file.
	DefaultRefPrefix = "ref: refs/heads/"

	// DefaultDescription is written to .git/description on init, matching
	// upstream Git's placeholder text.
	DefaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"
)

// File system permissions for created files and directories.
const (
	// DirPerms grants read/write/execute to owner, read/execute to others (rwxr-xr-x).
	DirPerms os.FileMode = 0755

	// FilePerms grants read/write to owner, read-only to others (rw-r--r--).
	FilePerms os.FileMode = 0644
)

// Cryptographic hash properties.
const (
	// HashByteLength is byte length of SHA-1 hash (20 bytes).
	HashByteLength = 20

	// HashStringLength is hex string length of SHA-1 hash (40 characters).
	HashStringLength = 40

	// HashDirPrefixLength is subdirectory prefix length under objects/ (2 characters).
	HashDirPrefixLength = 2
)
