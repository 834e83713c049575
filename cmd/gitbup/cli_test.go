package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ulrikstorm/gitbup/internal/bupbackend"
	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

func withRepo(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	repo, err := odb.Init(dir, bupbackend.New)
	if err != nil {
		t.Fatalf("odb.Init: %v", err)
	}
	repo.Free()

	prev := repoPath
	repoPath = dir
	t.Cleanup(func() { repoPath = prev })
}

func TestAddCommitShowRoundTrip(t *testing.T) {
	withRepo(t)

	if err := os.WriteFile(filepath.Join(repoPath, "greeting.txt"), []byte("hello, gitbup"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := runAdd("greeting.txt"); err != nil {
		t.Fatalf("runAdd: %v", err)
	}

	commitFp, err := runCommit("first commit")
	if err != nil {
		t.Fatalf("runCommit: %v", err)
	}
	if commitFp.IsZero() {
		t.Fatalf("expected non-zero commit fingerprint")
	}

	repo, err := openRepo()
	if err != nil {
		t.Fatalf("openRepo: %v", err)
	}
	defer repo.Free()

	commit, err := repo.ReadCommit(commitFp)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	tree, err := repo.ReadTree(commit.Tree)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	entry, err := lookupPath(repo, tree, "greeting.txt")
	if err != nil {
		t.Fatalf("lookupPath: %v", err)
	}
	data, err := repo.ReadBlob(entry.Fingerprint)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(data) != "hello, gitbup" {
		t.Fatalf("got %q, want %q", data, "hello, gitbup")
	}
}

func TestResolveRevisionHeadAndParent(t *testing.T) {
	withRepo(t)

	if err := os.WriteFile(filepath.Join(repoPath, "f"), []byte("v1"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := runAdd("f"); err != nil {
		t.Fatalf("runAdd: %v", err)
	}
	c1, err := runCommit("v1")
	if err != nil {
		t.Fatalf("runCommit: %v", err)
	}

	if err := os.WriteFile(filepath.Join(repoPath, "f"), []byte("v2"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := runAdd("f"); err != nil {
		t.Fatalf("runAdd: %v", err)
	}
	c2, err := runCommit("v2")
	if err != nil {
		t.Fatalf("runCommit: %v", err)
	}

	repo, err := openRepo()
	if err != nil {
		t.Fatalf("openRepo: %v", err)
	}
	defer repo.Free()

	head, err := resolveRevision(repo, "HEAD")
	if err != nil {
		t.Fatalf("resolveRevision HEAD: %v", err)
	}
	if head != c2 {
		t.Fatalf("HEAD = %s, want %s", head, c2)
	}

	parent, err := resolveRevision(repo, "HEAD~1")
	if err != nil {
		t.Fatalf("resolveRevision HEAD~1: %v", err)
	}
	if parent != c1 {
		t.Fatalf("HEAD~1 = %s, want %s", parent, c1)
	}

	if _, err := resolveRevision(repo, "HEAD~2"); err == nil {
		t.Fatalf("expected HEAD~2 to fail, only one ancestor exists")
	}
}

func TestRunShowMissingColonIsFatal(t *testing.T) {
	withRepo(t)

	if err := runShow("HEAD"); !errors.IsFatal(err) {
		t.Fatalf("expected a fatal error for a spec with no ':path', got %v", err)
	}
}
