package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rtandon/gfg/internal/codec"
)

const cacheTreeSignature = "TREE"
const invalidEntryCount = -1

// cacheNode is one directory's cache-tree state: its entry/subtree counts,
// and (once valid) the sha of the tree object that directory materialises
// to. fullPath is "" for the repository root.
type cacheNode struct {
	fullPath     string
	entryCount   int
	subtreeCount int
	sha          [20]byte
	valid        bool
	children     []string
}

// CacheTree is the in-memory forest backing the index's TREE extension: one
// node per directory that write-tree has already visited, rooted at the
// empty path.
type CacheTree struct {
	nodes   map[string]*cacheNode
	touched bool
}

// NewCacheTree returns an empty forest: a fresh index has no TREE extension
// at all until its first mutation.
func NewCacheTree() *CacheTree {
	return &CacheTree{nodes: map[string]*cacheNode{
		"": {fullPath: "", entryCount: invalidEntryCount},
	}}
}

func dirName(entryPath string) string {
	idx := strings.LastIndexByte(entryPath, '/')
	if idx < 0 {
		return ""
	}
	return entryPath[:idx]
}

func parentDir(dirPath string) string {
	if dirPath == "" {
		return ""
	}
	return dirName(dirPath)
}

func baseName(dirPath string) string {
	if dirPath == "" {
		return ""
	}
	idx := strings.LastIndexByte(dirPath, '/')
	if idx < 0 {
		return dirPath
	}
	return dirPath[idx+1:]
}

// ancestorsInclusive returns dirPath followed by each of its ancestors, up
// to and including the root ("").
func ancestorsInclusive(dirPath string) []string {
	var out []string
	for {
		out = append(out, dirPath)
		if dirPath == "" {
			break
		}
		dirPath = parentDir(dirPath)
	}
	return out
}

// Invalidate marks the node at dirPath and every ancestor up to the root as
// invalid: any write through a file's path must invalidate every tree whose
// materialised sha depended on it.
func (ct *CacheTree) Invalidate(dirPath string) {
	ct.touched = true
	for _, p := range ancestorsInclusive(dirPath) {
		if n, ok := ct.nodes[p]; ok {
			n.entryCount = invalidEntryCount
			n.sha = [20]byte{}
			n.valid = false
		}
	}
}

// EnsurePath creates missing nodes along dirPath's ancestor chain (including
// dirPath itself), each marked invalid, incrementing subtreeCount on each
// newly inserted node's parent and linking it into the parent's children.
func (ct *CacheTree) EnsurePath(dirPath string) {
	ct.touched = true
	chain := ancestorsInclusive(dirPath)
	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]
		if _, ok := ct.nodes[p]; ok {
			continue
		}
		ct.nodes[p] = &cacheNode{fullPath: p, entryCount: invalidEntryCount}
		parent := ct.nodes[parentDir(p)]
		parent.subtreeCount++
		parent.children = insertSortedChild(parent.children, p)
	}
}

func insertSortedChild(children []string, newChild string) []string {
	name := baseName(newChild)
	i := sort.Search(len(children), func(i int) bool { return baseName(children[i]) >= name })
	children = append(children, "")
	copy(children[i+1:], children[i:])
	children[i] = newChild
	return children
}

// TreesToAddOrUpdate scans entries for every directory they reference,
// returning directories with no cache-tree node yet (new) separately from
// directories already present but currently invalid (to update).
func (ct *CacheTree) TreesToAddOrUpdate(entries []Entry) (newDirs, dirsToUpdate []string) {
	seen := map[string]bool{}
	newSet := map[string]bool{}
	updateSet := map[string]bool{}

	for _, e := range entries {
		for _, dir := range ancestorsInclusive(dirName(e.Name)) {
			if seen[dir] {
				continue
			}
			seen[dir] = true
			node, ok := ct.nodes[dir]
			switch {
			case !ok:
				newSet[dir] = true
			case node.entryCount == invalidEntryCount:
				updateSet[dir] = true
			}
		}
	}

	for d := range newSet {
		newDirs = append(newDirs, d)
	}
	for d := range updateSet {
		dirsToUpdate = append(dirsToUpdate, d)
	}
	sort.Strings(newDirs)
	sort.Strings(dirsToUpdate)
	return newDirs, dirsToUpdate
}

// GetSubtrees returns the immediate child directory paths of dirPath
// currently recorded in the cache tree.
func (ct *CacheTree) GetSubtrees(dirPath string) []string {
	node, ok := ct.nodes[dirPath]
	if !ok {
		return nil
	}
	out := make([]string, len(node.children))
	copy(out, node.children)
	return out
}

// UpdateTreeEntry stamps a freshly written tree's sha and entry count onto
// the node at dirPath, marking it valid.
func (ct *CacheTree) UpdateTreeEntry(dirPath string, sha [20]byte, entryCount int) {
	node, ok := ct.nodes[dirPath]
	if !ok {
		node = &cacheNode{fullPath: dirPath}
		ct.nodes[dirPath] = node
	}
	node.sha = sha
	node.entryCount = entryCount
	node.valid = true
}

// RootSha returns the cached root tree's sha, if currently valid.
func (ct *CacheTree) RootSha() ([20]byte, bool) {
	node, ok := ct.nodes[""]
	if !ok || !node.valid {
		return [20]byte{}, false
	}
	return node.sha, true
}

// Bytes serialises the forest as a TREE extension block (signature, length,
// preorder node data), or nil if the cache tree has never been mutated.
func (ct *CacheTree) Bytes() []byte {
	if !ct.touched {
		return nil
	}

	var body bytes.Buffer
	ct.writeNode(&body, "")

	var out bytes.Buffer
	out.WriteString(cacheTreeSignature)
	out.Write(codec.PutUint32(nil, uint32(body.Len())))
	out.Write(body.Bytes())
	return out.Bytes()
}

func (ct *CacheTree) writeNode(buf *bytes.Buffer, p string) {
	node := ct.nodes[p]
	if p != "" {
		buf.WriteString(baseName(p))
	}
	buf.WriteByte(0)
	buf.WriteString(strconv.Itoa(node.entryCount))
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(node.subtreeCount))
	buf.WriteByte('\n')
	if node.entryCount != invalidEntryCount {
		buf.Write(node.sha[:])
	}
	for _, child := range node.children {
		ct.writeNode(buf, child)
	}
}

// ParseCacheTree decodes a TREE extension block (signature + length +
// preorder node data) as produced by Bytes. An empty block yields an
// untouched, empty forest.
func ParseCacheTree(data []byte) (*CacheTree, error) {
	if len(data) == 0 {
		return NewCacheTree(), nil
	}
	if len(data) < 8 || string(data[:4]) != cacheTreeSignature {
		return nil, fmt.Errorf("not a tree cache extension")
	}
	length := int(binary.BigEndian.Uint32(data[4:8]))
	if length != len(data)-8 {
		return nil, fmt.Errorf("tree cache extension length mismatch: header says %d, have %d", length, len(data)-8)
	}
	payload := data[8:]

	ct := &CacheTree{nodes: map[string]*cacheNode{}, touched: true}

	type frame struct {
		path      string
		remaining int
	}
	var stack []frame

	idx := 0
	for idx < len(payload) {
		for len(stack) > 0 && stack[len(stack)-1].remaining == 0 {
			stack = stack[:len(stack)-1]
		}

		nulIdx := bytes.IndexByte(payload[idx:], 0)
		if nulIdx < 0 {
			return nil, fmt.Errorf("malformed tree cache entry: missing NUL")
		}
		nulIdx += idx
		name := string(payload[idx:nulIdx])

		idx = nulIdx + 1
		spaceIdx := bytes.IndexByte(payload[idx:], ' ')
		if spaceIdx < 0 {
			return nil, fmt.Errorf("malformed tree cache entry: missing space")
		}
		spaceIdx += idx
		entryCount, err := strconv.Atoi(string(payload[idx:spaceIdx]))
		if err != nil {
			return nil, fmt.Errorf("malformed entry_count: %w", err)
		}

		idx = spaceIdx + 1
		newlineIdx := bytes.IndexByte(payload[idx:], '\n')
		if newlineIdx < 0 {
			return nil, fmt.Errorf("malformed tree cache entry: missing newline")
		}
		newlineIdx += idx
		subtreeCount, err := strconv.Atoi(string(payload[idx:newlineIdx]))
		if err != nil {
			return nil, fmt.Errorf("malformed subtree_count: %w", err)
		}
		idx = newlineIdx + 1

		var path string
		if len(stack) == 0 {
			path = ""
		} else {
			parent := stack[len(stack)-1].path
			stack[len(stack)-1].remaining--
			if parent == "" {
				path = name
			} else {
				path = parent + "/" + name
			}
		}

		node := &cacheNode{fullPath: path, entryCount: entryCount, subtreeCount: subtreeCount}
		if entryCount != invalidEntryCount {
			if idx+codec.ShaSize > len(payload) {
				return nil, fmt.Errorf("malformed tree cache entry: truncated sha for %q", path)
			}
			copy(node.sha[:], payload[idx:idx+codec.ShaSize])
			node.valid = true
			idx += codec.ShaSize
		}
		ct.nodes[path] = node
		if path != "" {
			if parentNode, ok := ct.nodes[parentDir(path)]; ok {
				parentNode.children = append(parentNode.children, path)
			}
		}

		stack = append(stack, frame{path: path, remaining: subtreeCount})
	}

	return ct, nil
}
