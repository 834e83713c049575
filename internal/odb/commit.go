package odb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// Signature is an author or committer identity, defaulting the way
// original_source/src/git2.c's make_signature does when the matching
// environment variable is unset.
type Signature struct {
	Name  string
	Email string
}

// DefaultSignature builds a Signature from the given environment
// variable names, falling back to "Anon" / "anon@example.com" per
// spec.md §6.
func DefaultSignature(nameEnv, emailEnv string, lookup func(string) string) Signature {
	name := lookup(nameEnv)
	if name == "" {
		name = "Anon"
	}
	email := lookup(emailEnv)
	if email == "" {
		email = "anon@example.com"
	}
	return Signature{Name: name, Email: email}
}

func (s Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// Commit is a minimal commit object: a tree, an optional parent, two
// signatures and a message, grounded on git_commit_create_v's argument
// list in original_source/src/git2.c's cmd_commit.
type Commit struct {
	Tree      Fingerprint
	Parent    Fingerprint // ZeroFingerprint for the first commit
	Author    Signature
	Committer Signature
	Message   string
}

// EncodeCommit renders c in a git-commit-object-like text form: one
// header line per field, a blank line, then the message.
func EncodeCommit(c Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	if !c.Parent.IsZero() {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// DecodeCommit parses the format EncodeCommit produces.
func DecodeCommit(data []byte) (Commit, error) {
	var c Commit
	sep := bytes.Index(data, []byte("\n\n"))
	if sep < 0 {
		return c, errors.Errorf("malformed commit: no header/message separator")
	}
	header, message := data[:sep], data[sep+2:]
	c.Message = string(message)

	for _, line := range bytes.Split(header, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		fields := bytes.SplitN(line, []byte(" "), 2)
		if len(fields) != 2 {
			return Commit{}, errors.Errorf("malformed commit header line %q", line)
		}
		key, value := string(fields[0]), string(fields[1])
		switch key {
		case "tree":
			fp, err := ParseFingerprint(value)
			if err != nil {
				return Commit{}, errors.Wrap(err, "commit tree")
			}
			c.Tree = fp
		case "parent":
			fp, err := ParseFingerprint(value)
			if err != nil {
				return Commit{}, errors.Wrap(err, "commit parent")
			}
			c.Parent = fp
		case "author":
			c.Author = parseSignature(value)
		case "committer":
			c.Committer = parseSignature(value)
		}
	}
	return c, nil
}

func parseSignature(s string) Signature {
	open := bytes.IndexByte([]byte(s), '<')
	if open < 0 {
		return Signature{Name: s}
	}
	end := bytes.IndexByte([]byte(s), '>')
	if end < open {
		return Signature{Name: s}
	}
	return Signature{
		Name:  strings.TrimSpace(s[:open]),
		Email: s[open+1 : end],
	}
}
