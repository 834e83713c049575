package main

import (
	"strconv"
	"strings"

	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

// resolveRevision parses the small subset of git_revparse_single's
// grammar this CLI needs: "HEAD", "HEAD~N" (N ancestor generations back
// along the single-parent chain), or a bare 40-hex fingerprint.
func resolveRevision(repo *odb.Repository, rev string) (odb.Fingerprint, error) {
	head, ok, err := repo.Head()
	if err != nil {
		return odb.Fingerprint{}, err
	}

	if rev == "HEAD" {
		if !ok {
			return odb.Fingerprint{}, errors.Fatal("HEAD is unborn: no commits yet")
		}
		return head, nil
	}

	if rest, found := strings.CutPrefix(rev, "HEAD~"); found {
		if !ok {
			return odb.Fingerprint{}, errors.Fatal("HEAD is unborn: no commits yet")
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return odb.Fingerprint{}, errors.Fatalf("invalid revision %q", rev)
		}
		fp := head
		for i := 0; i < n; i++ {
			commit, err := repo.ReadCommit(fp)
			if err != nil {
				return odb.Fingerprint{}, errors.Wrapf(err, "resolve %s", rev)
			}
			if commit.Parent.IsZero() {
				return odb.Fingerprint{}, errors.Fatalf("%s: not enough ancestors", rev)
			}
			fp = commit.Parent
		}
		return fp, nil
	}

	return odb.ParseFingerprint(rev)
}

// lookupPath descends tree along the slash-separated components of path,
// returning the entry at the end, the way original_source/src/git2.c's
// cmd_show walks a single git_tree_entry_bypath call.
func lookupPath(repo *odb.Repository, tree odb.Tree, path string) (odb.TreeEntry, error) {
	components := strings.Split(path, "/")
	for i, name := range components {
		var found *odb.TreeEntry
		for j := range tree {
			if tree[j].Name == name {
				found = &tree[j]
				break
			}
		}
		if found == nil {
			return odb.TreeEntry{}, errors.Fatalf("path not found: %s", path)
		}
		if i == len(components)-1 {
			return *found, nil
		}
		if found.Kind != odb.KindTree {
			return odb.TreeEntry{}, errors.Fatalf("%s is not a directory", strings.Join(components[:i+1], "/"))
		}
		next, err := repo.ReadTree(found.Fingerprint)
		if err != nil {
			return odb.TreeEntry{}, err
		}
		tree = next
	}
	return odb.TreeEntry{}, errors.Fatalf("path not found: %s", path)
}
