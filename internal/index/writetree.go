package index

import (
	"fmt"
	"sort"

	"github.com/rtandon/gfg/internal/objects"
)

// ObjectWriter is the write side of the object store write-tree needs.
type ObjectWriter interface {
	Write(obj objects.Object) ([20]byte, error)
}

// WriteTree materialises every directory the index currently needs but
// doesn't already have a valid cached tree for, deepest first, so a
// directory's tree object always embeds its children's already-known shas.
// A clean cache tree (no mutations since the last write-tree) writes no new
// objects and simply returns the cached root sha.
func (idx *Index) WriteTree(store ObjectWriter) ([20]byte, error) {
	newDirs, dirsToUpdate := idx.CacheTree.TreesToAddOrUpdate(idx.Entries)
	for _, dir := range newDirs {
		idx.CacheTree.EnsurePath(dir)
	}

	pending := dedupeStrings(append(append([]string{}, newDirs...), dirsToUpdate...))
	sort.Strings(pending)
	reverseStrings(pending)

	for _, dir := range pending {
		sha, entryCount, err := idx.buildTree(dir, store)
		if err != nil {
			return [20]byte{}, fmt.Errorf("failed to build tree for %q: %w", dir, err)
		}
		idx.CacheTree.UpdateTreeEntry(dir, sha, entryCount)
	}

	root, ok := idx.CacheTree.RootSha()
	if !ok {
		return [20]byte{}, fmt.Errorf("index has no entries to write a tree from")
	}
	return root, nil
}

func (idx *Index) buildTree(dir string, store ObjectWriter) ([20]byte, int, error) {
	blobs := idx.GetBlobs(dir)
	subs := idx.CacheTree.GetSubtrees(dir)

	var entries []objects.TreeEntry
	for _, blob := range blobs {
		mode := objects.ModeRegularFile
		if blob.Mode&0o111 != 0 {
			mode = objects.ModeExecutable
		}
		entry, err := objects.NewTreeEntry(mode, baseName(blob.Name), blob.Sha)
		if err != nil {
			return [20]byte{}, 0, err
		}
		entries = append(entries, entry)
	}

	entryCount := len(blobs)
	for _, sub := range subs {
		node, ok := idx.CacheTree.nodes[sub]
		if !ok || !node.valid {
			return [20]byte{}, 0, fmt.Errorf("subtree %q was not built before its parent", sub)
		}
		entry, err := objects.NewTreeEntry(objects.ModeDirectory, baseName(sub), node.sha)
		if err != nil {
			return [20]byte{}, 0, err
		}
		entries = append(entries, entry)
		entryCount += node.entryCount
	}

	tree, err := objects.NewTree(entries)
	if err != nil {
		return [20]byte{}, 0, err
	}
	sha, err := store.Write(tree)
	if err != nil {
		return [20]byte{}, 0, err
	}
	return sha, entryCount, nil
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
