package objects

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rtandon/gfg/internal/codec"
)

// FileMode is the ASCII mode string Git stores in a tree entry.
type FileMode string

const (
	ModeRegularFile FileMode = "100644" // Regular non-executable file
	ModeExecutable  FileMode = "100755" // Executable file
	ModeSymlink     FileMode = "120000" // Symbolic link (read-only support)
	ModeDirectory   FileMode = "40000"  // Directory (tree); Git writes no leading zero
	ModeSubmodule   FileMode = "160000" // Gitlink/submodule (read-only support)
)

// IsValid reports whether m is one of the modes this core can parse. Only
// ModeRegularFile, ModeExecutable and ModeDirectory are ever written.
func (m FileMode) IsValid() bool {
	switch m {
	case ModeRegularFile, ModeExecutable, ModeSymlink, ModeDirectory, ModeSubmodule:
		return true
	default:
		return false
	}
}

// IsDirectory reports whether m denotes a subtree.
func (m FileMode) IsDirectory() bool {
	return m == ModeDirectory
}

// displayMode zero-pads m to six digits for `cat-file -p` output; the
// on-disk/serialised form of a tree mode never carries this padding.
func (m FileMode) displayMode() string {
	return strings.Repeat("0", 6-len(string(m))) + string(m)
}

// TreeEntry is a single (mode, name, sha) triplet inside a tree object.
type TreeEntry struct {
	Mode FileMode
	Name string
	Sha  [20]byte
}

// NewTreeEntry validates and constructs a tree entry.
func NewTreeEntry(mode FileMode, name string, sha [20]byte) (TreeEntry, error) {
	if !mode.IsValid() {
		return TreeEntry{}, fmt.Errorf("invalid file mode: %s", mode)
	}
	if strings.ContainsAny(name, "/\x00") {
		return TreeEntry{}, fmt.Errorf("invalid entry name %q: must not contain '/' or NUL", name)
	}
	if name == "" {
		return TreeEntry{}, fmt.Errorf("invalid entry name: must not be empty")
	}
	return TreeEntry{Mode: mode, Name: name, Sha: sha}, nil
}

// IsDirectory reports whether this entry is a subtree.
func (e TreeEntry) IsDirectory() bool { return e.Mode.IsDirectory() }

// Tree is a directory listing: entries sorted per Git's name/"name/" rule.
type Tree struct {
	entries []TreeEntry
}

// NewTree sorts treeEntries per Git's directory-suffix rule and constructs a
// Tree. The caller need not pre-sort; NewTree always does, stably, so equal
// sort keys keep their relative input order.
func NewTree(treeEntries []TreeEntry) (*Tree, error) {
	entries := make([]TreeEntry, len(treeEntries))
	copy(entries, treeEntries)

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("duplicate entry name %q", e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	slices.SortStableFunc(entries, compareTreeEntries)

	return &Tree{entries: entries}, nil
}

// compareTreeEntries implements Git's tree entry sorting rule: directory
// names compare as if suffixed with "/", so a subtree "foo" sorts before a
// sibling blob "foobar".
func compareTreeEntries(a, b TreeEntry) int {
	return strings.Compare(sortableName(a), sortableName(b))
}

func sortableName(entry TreeEntry) string {
	if entry.Mode.IsDirectory() {
		return entry.Name + "/"
	}
	return entry.Name
}

func (t *Tree) Type() Type      { return TypeTree }
func (t *Tree) Entries() []TreeEntry { return t.entries }

// Payload serialises the tree's entries: "<mode> <name>\0<20 raw sha bytes>"
// concatenated, in the tree's (already sorted) entry order.
func (t *Tree) Payload() []byte {
	var buf bytes.Buffer
	for _, entry := range t.entries {
		buf.WriteString(string(entry.Mode))
		buf.WriteByte(' ')
		buf.WriteString(entry.Name)
		buf.WriteByte(0)
		buf.Write(entry.Sha[:])
	}
	return buf.Bytes()
}

// FindEntry looks up an entry by exact name.
func (t *Tree) FindEntry(name string) (TreeEntry, bool) {
	for _, entry := range t.entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return TreeEntry{}, false
}

// ParseTree decodes a tree payload entry-by-entry until fully consumed,
// rejecting malformed modes, names and truncated sha suffixes.
func ParseTree(payload []byte) (*Tree, error) {
	var entries []TreeEntry
	i := 0
	for i < len(payload) {
		spaceIdx := bytes.IndexByte(payload[i:], ' ')
		if spaceIdx < 0 {
			return nil, fmt.Errorf("malformed tree entry: missing mode separator")
		}
		spaceIdx += i
		mode := FileMode(payload[i:spaceIdx])
		if !mode.IsValid() {
			return nil, fmt.Errorf("malformed tree entry: invalid mode %q", mode)
		}

		nulIdx := bytes.IndexByte(payload[spaceIdx+1:], 0)
		if nulIdx < 0 {
			return nil, fmt.Errorf("malformed tree entry: missing name terminator")
		}
		nulIdx += spaceIdx + 1
		name := string(payload[spaceIdx+1 : nulIdx])
		if name == "" || strings.Contains(name, "/") {
			return nil, fmt.Errorf("malformed tree entry: invalid name %q", name)
		}

		shaStart := nulIdx + 1
		shaEnd := shaStart + codec.ShaSize
		if shaEnd > len(payload) {
			return nil, fmt.Errorf("malformed tree entry: truncated sha for %q", name)
		}
		var sha [20]byte
		copy(sha[:], payload[shaStart:shaEnd])

		entries = append(entries, TreeEntry{Mode: mode, Name: name, Sha: sha})
		i = shaEnd
	}

	return &Tree{entries: entries}, nil
}

// PrettyPrint renders one line per entry, matching `cat-file -p` on a tree:
// "<6-digit mode> <type> <hex-sha>\t<name>".
func (t *Tree) PrettyPrint(w io.Writer) error {
	for _, entry := range t.entries {
		entryType := TypeBlob
		if entry.Mode.IsDirectory() {
			entryType = TypeTree
		}
		_, err := fmt.Fprintf(w, "%s %s %s\t%s\n",
			entry.Mode.displayMode(), entryType, codec.ShaToHex(entry.Sha), entry.Name)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) String() string {
	return "Tree{entries: " + strconv.Itoa(len(t.entries)) + "}"
}
