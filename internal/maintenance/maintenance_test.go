package maintenance_test

import (
	"testing"

	"github.com/ulrikstorm/gitbup/internal/bupbackend"
	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/maintenance"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

func newRepo(t *testing.T) *odb.Repository {
	t.Helper()
	repo, err := odb.Init(t.TempDir(), bupbackend.New)
	if err != nil {
		t.Fatalf("odb.Init: %v", err)
	}
	t.Cleanup(repo.Free)
	return repo
}

func commitFile(t *testing.T, repo *odb.Repository, name string, data []byte, parent odb.Fingerprint) odb.Fingerprint {
	t.Helper()
	blobFp, err := repo.WriteBlob(data)
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	treeFp, err := repo.WriteTree(odb.Tree{{Name: name, Kind: odb.KindBlob, Fingerprint: blobFp}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commitFp, err := repo.WriteCommit(odb.Commit{Tree: treeFp, Parent: parent, Message: "commit " + name})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	if err := repo.SetHead(commitFp); err != nil {
		t.Fatalf("SetHead: %v", err)
	}
	return commitFp
}

func TestFsckPassesOnHealthyRepo(t *testing.T) {
	repo := newRepo(t)
	commitFile(t, repo, "a.txt", []byte("hello"), odb.ZeroFingerprint)

	if err := maintenance.Fsck(repo); err != nil {
		t.Fatalf("Fsck: %v", err)
	}
}

func TestFsckFailsWhenObjectMissing(t *testing.T) {
	repo := newRepo(t)
	c1 := commitFile(t, repo, "a.txt", []byte("v1"), odb.ZeroFingerprint)
	commitFile(t, repo, "a.txt", []byte("v2"), c1)

	commit, err := repo.ReadCommit(c1)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if err := repo.Store().Remove(commit.Tree); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	err = maintenance.Fsck(repo)
	if err == nil {
		t.Fatalf("expected Fsck to fail on missing tree")
	}
	if !errors.IsFatal(err) {
		t.Fatalf("expected a fatal error, got %v", err)
	}
}

func TestRepackPreservesReachableReads(t *testing.T) {
	repo := newRepo(t)
	c1 := commitFile(t, repo, "a.txt", []byte("version one"), odb.ZeroFingerprint)
	c2 := commitFile(t, repo, "a.txt", []byte("version two, a bit longer"), c1)

	result, err := maintenance.Repack(repo)
	if err != nil {
		t.Fatalf("Repack: %v", err)
	}
	if result.ObjectsPacked == 0 {
		t.Fatalf("expected at least one packed object")
	}

	if err := maintenance.Fsck(repo); err != nil {
		t.Fatalf("Fsck after repack: %v", err)
	}

	for _, c := range []odb.Fingerprint{c1, c2} {
		commit, err := repo.ReadCommit(c)
		if err != nil {
			t.Fatalf("ReadCommit after repack: %v", err)
		}
		tree, err := repo.ReadTree(commit.Tree)
		if err != nil {
			t.Fatalf("ReadTree after repack: %v", err)
		}
		for _, entry := range tree {
			if _, err := repo.ReadBlob(entry.Fingerprint); err != nil {
				t.Fatalf("ReadBlob after repack: %v", err)
			}
		}
	}
}

func TestRepackSweepsUnreachableCommit(t *testing.T) {
	repo := newRepo(t)
	c1 := commitFile(t, repo, "a.txt", []byte("first"), odb.ZeroFingerprint)

	orphanCommit, err := repo.ReadCommit(c1)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	orphanFp, err := repo.WriteCommit(odb.Commit{Tree: orphanCommit.Tree, Message: "never pointed to by HEAD"})
	if err != nil {
		t.Fatalf("WriteCommit orphan: %v", err)
	}

	result, err := maintenance.Repack(repo)
	if err != nil {
		t.Fatalf("Repack: %v", err)
	}
	if result.ObjectsSwept == 0 {
		t.Fatalf("expected the orphan commit to be swept")
	}
	if repo.Store().Has(orphanFp) {
		t.Fatalf("expected unreachable commit %s to be removed by sweep", orphanFp)
	}
	if !repo.Store().Has(c1) {
		t.Fatalf("expected reachable commit %s to survive sweep", c1)
	}
}
