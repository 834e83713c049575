package odb_test

import (
	"testing"

	"github.com/ulrikstorm/gitbup/internal/bupbackend"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

func TestInitThenOpen(t *testing.T) {
	dir := t.TempDir()
	repo, err := odb.Init(dir, bupbackend.New)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	repo.Free()

	if !odb.Exists(dir) {
		t.Fatalf("expected Exists(%s) to be true after Init", dir)
	}

	reopened, err := odb.Open(dir, bupbackend.New)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Free()
	if reopened.Path() != dir {
		t.Fatalf("got path %q, want %q", reopened.Path(), dir)
	}
}

func TestHeadUnbornUntilSet(t *testing.T) {
	repo, err := odb.Init(t.TempDir(), bupbackend.New)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer repo.Free()

	_, ok, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if ok {
		t.Fatalf("expected unborn HEAD on a fresh repository")
	}

	fp, err := repo.WriteCommit(odb.Commit{Tree: odb.ZeroFingerprint, Message: "empty"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	if err := repo.SetHead(fp); err != nil {
		t.Fatalf("SetHead: %v", err)
	}

	head, ok, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if !ok || head != fp {
		t.Fatalf("got head=%s ok=%v, want %s true", head, ok, fp)
	}
}

func TestReadTreeRejectsWrongKind(t *testing.T) {
	repo, err := odb.Init(t.TempDir(), bupbackend.New)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer repo.Free()

	blobFp, err := repo.WriteBlob([]byte("not a tree"))
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if _, err := repo.ReadTree(blobFp); err == nil {
		t.Fatalf("expected ReadTree to reject a blob fingerprint")
	}
}

func TestReadCommitRejectsWrongKind(t *testing.T) {
	repo, err := odb.Init(t.TempDir(), bupbackend.New)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer repo.Free()

	treeFp, err := repo.WriteTree(nil)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if _, err := repo.ReadCommit(treeFp); err == nil {
		t.Fatalf("expected ReadCommit to reject a tree fingerprint")
	}
}

func TestStageBlobThenWriteIndexTree(t *testing.T) {
	repo, err := odb.Init(t.TempDir(), bupbackend.New)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer repo.Free()

	if _, err := repo.StageBlob("a.txt", []byte("v1")); err != nil {
		t.Fatalf("StageBlob: %v", err)
	}
	fp2, err := repo.StageBlob("a.txt", []byte("v2"))
	if err != nil {
		t.Fatalf("StageBlob: %v", err)
	}

	treeFp, err := repo.WriteIndexTree()
	if err != nil {
		t.Fatalf("WriteIndexTree: %v", err)
	}
	tree, err := repo.ReadTree(treeFp)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("expected staging the same path twice to replace, got %d entries", len(tree))
	}
	if tree[0].Fingerprint != fp2 {
		t.Fatalf("expected the tree entry to point at the latest staged version")
	}
}
