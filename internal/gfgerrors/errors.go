// Package gfgerrors defines the sentinel error kinds shared across the
// object store, index and repository layers. Internal packages wrap these
// with context via fmt.Errorf("...: %w", ...); only the cmd package turns
// them into a "fatal:" line and an exit code.
package gfgerrors

import "errors"

var (
	// ErrPathNotFound is returned when a working-tree pathspec matches no file.
	ErrPathNotFound = errors.New("pathspec did not match any files")

	// ErrNotARepository is returned when repository discovery reaches the
	// filesystem root without finding a .git directory.
	ErrNotARepository = errors.New("not a git repository (or any of the parent directories)")

	// ErrCorruptObject is returned when a loose object's declared size does
	// not match its inflated payload, or its framing is otherwise malformed.
	ErrCorruptObject = errors.New("corrupt object")

	// ErrObjectNotFound is returned when a full or resolved SHA has no
	// corresponding loose object file.
	ErrObjectNotFound = errors.New("object not found")

	// ErrAmbiguousPrefix is returned when a short SHA prefix matches more
	// than one loose object.
	ErrAmbiguousPrefix = errors.New("ambiguous object prefix")

	// ErrInvalidArgument is returned for malformed command input, such as a
	// prefix shorter than the minimum resolvable length.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIdentityUnavailable is returned when no author/committer identity
	// can be resolved from environment or repository config.
	ErrIdentityUnavailable = errors.New("identity unavailable")

	// ErrUnsupportedExtension is returned when the index contains a
	// mandatory (uppercase-leading) extension this implementation does not
	// understand.
	ErrUnsupportedExtension = errors.New("unsupported index extension")
)
