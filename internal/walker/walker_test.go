package walker_test

import (
	"testing"

	"github.com/ulrikstorm/gitbup/internal/bupbackend"
	"github.com/ulrikstorm/gitbup/internal/odb"
	"github.com/ulrikstorm/gitbup/internal/walker"
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

func TestWalkUnbornHeadIsEmpty(t *testing.T) {
	repo := newRepo(t)

	set, err := walker.Walk(repo)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set for unborn HEAD, got %d entries", set.Len())
	}
}

func TestWalkSingleCommitCoversBlobTreeCommit(t *testing.T) {
	repo := newRepo(t)

	blobFp, err := repo.WriteBlob([]byte("hello world"))
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	treeFp, err := repo.WriteTree(odb.Tree{{Name: "hello.txt", Kind: odb.KindBlob, Fingerprint: blobFp}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commitFp, err := repo.WriteCommit(odb.Commit{Tree: treeFp, Message: "first"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	if err := repo.SetHead(commitFp); err != nil {
		t.Fatalf("SetHead: %v", err)
	}

	set, err := walker.Walk(repo)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	for _, fp := range []odb.Fingerprint{commitFp, treeFp, blobFp} {
		if !set.Has(fp) {
			t.Errorf("expected %s to be reachable", fp)
		}
	}
}

func TestWalkLargeBlobReachesChunkFingerprints(t *testing.T) {
	repo := newRepo(t)

	data := make([]byte, 50000)
	for i := range data {
		data[i] = byte(i * 7)
	}
	blobFp, err := repo.WriteBlob(data)
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	backend, ok := repo.Backend().(*bupbackend.Backend)
	if !ok {
		t.Fatalf("expected *bupbackend.Backend, got %T", repo.Backend())
	}
	manifest, err := backend.Inspect(blobFp)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(manifest) < 2 {
		t.Fatalf("expected a multi-chunk manifest, got %d entries", len(manifest))
	}

	treeFp, err := repo.WriteTree(odb.Tree{{Name: "big.bin", Kind: odb.KindBlob, Fingerprint: blobFp}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commitFp, err := repo.WriteCommit(odb.Commit{Tree: treeFp, Message: "large"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	if err := repo.SetHead(commitFp); err != nil {
		t.Fatalf("SetHead: %v", err)
	}

	set, err := walker.Walk(repo)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	for _, e := range manifest {
		if !set.Has(e.Fingerprint) {
			t.Errorf("expected chunk %s to be reachable", e.Fingerprint)
		}
	}
}

func TestWalkFollowsParentChain(t *testing.T) {
	repo := newRepo(t)

	blob1, err := repo.WriteBlob([]byte("v1"))
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	tree1, err := repo.WriteTree(odb.Tree{{Name: "f", Kind: odb.KindBlob, Fingerprint: blob1}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commit1, err := repo.WriteCommit(odb.Commit{Tree: tree1, Message: "c1"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	blob2, err := repo.WriteBlob([]byte("v2"))
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	tree2, err := repo.WriteTree(odb.Tree{{Name: "f", Kind: odb.KindBlob, Fingerprint: blob2}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commit2, err := repo.WriteCommit(odb.Commit{Tree: tree2, Parent: commit1, Message: "c2"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	if err := repo.SetHead(commit2); err != nil {
		t.Fatalf("SetHead: %v", err)
	}

	set, err := walker.Walk(repo)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	for _, fp := range []odb.Fingerprint{commit1, tree1, blob1, commit2, tree2, blob2} {
		if !set.Has(fp) {
			t.Errorf("expected %s (ancestor history) to be reachable", fp)
		}
	}
}
