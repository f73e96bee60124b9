package objects

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rtandon/gfg/internal/codec"
)

// Author represents a commit's author or committer identity and the instant
// they acted, exactly as recorded in the commit object (not recomputed).
type Author struct {
	Name      string
	Email     string
	Timestamp time.Time
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// line renders the "<name> <<email>> <unix-seconds> <±HHMM>" form used for
// both the "author" and "committer" header lines.
func (a Author) line() string {
	_, offset := a.Timestamp.Zone()
	return fmt.Sprintf("%s <%s> %d %s", a.Name, a.Email, a.Timestamp.Unix(), formatTimezone(offset))
}

func formatTimezone(offsetSeconds int) string {
	hours := offsetSeconds / 3600
	minutes := (offsetSeconds % 3600) / 60
	if minutes < 0 {
		minutes = -minutes
	}
	return fmt.Sprintf("%+03d%02d", hours, minutes)
}

// parseAuthorLine reverses Author.line, accepting the exact Git wire form.
func parseAuthorLine(line string) (Author, error) {
	openIdx := strings.LastIndex(line, "<")
	closeIdx := strings.LastIndex(line, ">")
	if openIdx < 0 || closeIdx < openIdx {
		return Author{}, fmt.Errorf("malformed author/committer line: %q", line)
	}
	name := strings.TrimSpace(line[:openIdx])
	email := line[openIdx+1 : closeIdx]

	rest := strings.Fields(strings.TrimSpace(line[closeIdx+1:]))
	if len(rest) != 2 {
		return Author{}, fmt.Errorf("malformed author/committer timestamp in: %q", line)
	}
	unixSeconds, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return Author{}, fmt.Errorf("malformed author/committer timestamp %q: %w", rest[0], err)
	}
	loc, err := parseTimezoneOffset(rest[1])
	if err != nil {
		return Author{}, err
	}

	return Author{
		Name:      name,
		Email:     email,
		Timestamp: time.Unix(unixSeconds, 0).In(loc),
	}, nil
}

func parseTimezoneOffset(tz string) (*time.Location, error) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return nil, fmt.Errorf("malformed timezone offset %q", tz)
	}
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, fmt.Errorf("malformed timezone offset %q: %w", tz, err)
	}
	minutes, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil, fmt.Errorf("malformed timezone offset %q: %w", tz, err)
	}
	seconds := hours*3600 + minutes*60
	if tz[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone(tz, seconds), nil
}

// Commit is a snapshot: a tree, zero or more parents, two identities and a
// free-form message. Zero parents marks a root commit; more than one marks a
// merge. The original reimplementation this core supersedes only tracked a
// single optional parent — this one carries the full parent list real Git
// commits do.
type Commit struct {
	treeSha    [20]byte
	parentShas [][20]byte
	author     Author
	committer  Author
	message    string
}

// NewCommit constructs a commit snapshot. parentShas may be empty (root
// commit) or hold more than one entry (merge commit).
func NewCommit(treeSha [20]byte, parentShas [][20]byte, author, committer Author, message string) *Commit {
	parents := make([][20]byte, len(parentShas))
	copy(parents, parentShas)
	return &Commit{
		treeSha:    treeSha,
		parentShas: parents,
		author:     author,
		committer:  committer,
		message:    message,
	}
}

func (c *Commit) Type() Type { return TypeCommit }

func (c *Commit) TreeSha() [20]byte      { return c.treeSha }
func (c *Commit) ParentShas() [][20]byte { return c.parentShas }
func (c *Commit) Author() Author         { return c.author }
func (c *Commit) Committer() Author      { return c.committer }
func (c *Commit) Message() string        { return c.message }

// IsRoot reports whether this commit has no parents.
func (c *Commit) IsRoot() bool { return len(c.parentShas) == 0 }

// Payload serialises the commit per Git's wire format: a "tree" line, zero or
// more "parent" lines in order, "author" and "committer" lines, a blank line,
// then the message (always newline-terminated).
func (c *Commit) Payload() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "tree %s\n", codec.ShaToHex(c.treeSha))
	for _, parent := range c.parentShas {
		fmt.Fprintf(&buf, "parent %s\n", codec.ShaToHex(parent))
	}
	fmt.Fprintf(&buf, "author %s\n", c.author.line())
	fmt.Fprintf(&buf, "committer %s\n", c.committer.line())
	buf.WriteByte('\n')
	buf.WriteString(c.message)
	if len(c.message) == 0 || c.message[len(c.message)-1] != '\n' {
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// ParseCommit decodes a commit payload: header lines up to the first blank
// line, then the message verbatim.
func ParseCommit(payload []byte) (*Commit, error) {
	text := string(payload)
	headerEnd := strings.Index(text, "\n\n")
	if headerEnd < 0 {
		return nil, fmt.Errorf("malformed commit: missing header/message separator")
	}

	var commit Commit
	var sawTree, sawAuthor, sawCommitter bool
	for _, line := range strings.Split(text[:headerEnd], "\n") {
		switch {
		case strings.HasPrefix(line, "tree "):
			sha, err := codec.HexToSha(strings.TrimPrefix(line, "tree "))
			if err != nil {
				return nil, fmt.Errorf("malformed commit tree line: %w", err)
			}
			commit.treeSha = sha
			sawTree = true
		case strings.HasPrefix(line, "parent "):
			sha, err := codec.HexToSha(strings.TrimPrefix(line, "parent "))
			if err != nil {
				return nil, fmt.Errorf("malformed commit parent line: %w", err)
			}
			commit.parentShas = append(commit.parentShas, sha)
		case strings.HasPrefix(line, "author "):
			author, err := parseAuthorLine(strings.TrimPrefix(line, "author "))
			if err != nil {
				return nil, err
			}
			commit.author = author
			sawAuthor = true
		case strings.HasPrefix(line, "committer "):
			committer, err := parseAuthorLine(strings.TrimPrefix(line, "committer "))
			if err != nil {
				return nil, err
			}
			commit.committer = committer
			sawCommitter = true
		default:
			return nil, fmt.Errorf("malformed commit header line: %q", line)
		}
	}
	if !sawTree {
		return nil, fmt.Errorf("malformed commit: missing tree line")
	}
	if !sawAuthor {
		return nil, fmt.Errorf("malformed commit: missing author line")
	}
	if !sawCommitter {
		return nil, fmt.Errorf("malformed commit: missing committer line")
	}

	commit.message = text[headerEnd+2:]
	return &commit, nil
}

// PrettyPrint writes the commit's payload verbatim, matching `cat-file -p`.
func (c *Commit) PrettyPrint(w io.Writer) error {
	_, err := w.Write(c.Payload())
	return err
}

func (c *Commit) String() string {
	return fmt.Sprintf("Commit{tree: %s, parents: %d, author: %s, message: %q}",
		codec.ShaToHex(c.treeSha), len(c.parentShas), c.author.String(), c.message)
}
