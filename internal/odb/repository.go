package odb

import (
	"os"
	"path/filepath"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// Backend is the host-ODB backend contract spec.md §6 names: the three
// operations {read, write, free} a backend adapter (internal/bupbackend)
// implements and a Repository is registered against. Repository never
// talks to a Store directly for objects it writes through the backend —
// every kind, including non-Blob ones, goes through Backend so the
// pass-through rule in spec.md §4.5 is exercised uniformly.
type Backend interface {
	Write(kind ObjectKind, data []byte) (Fingerprint, error)
	Read(fp Fingerprint) (ObjectKind, []byte, error)
	Free()
}

// Repository is a repository handle: the backend it writes and reads
// objects through, plus the on-disk path and ref state the surrounding
// CLI and maintenance operations need. Grounded on
// original_source/include/bup_odb.h's bup_odb_backend and the
// repository open/init/free primitives spec.md §6 names.
type Repository struct {
	path    string
	store   *LooseStore
	backend Backend
}

// Init creates a new, empty repository rooted at path and returns a
// handle backed by newBackend(store, path).
func Init[B Backend](path string, newBackend func(Store, string) B) (*Repository, error) {
	store, err := InitLooseStore(path)
	if err != nil {
		return nil, err
	}
	if err := writeHeadSymref(path); err != nil {
		return nil, errors.Wrap(errors.ErrStorage, err.Error())
	}
	return &Repository{path: path, store: store, backend: newBackend(store, path)}, nil
}

// Open opens an existing repository at path.
func Open[B Backend](path string, newBackend func(Store, string) B) (*Repository, error) {
	store, err := OpenLooseStore(path)
	if err != nil {
		return nil, err
	}
	return &Repository{path: path, store: store, backend: newBackend(store, path)}, nil
}

// Path returns the repository's root directory.
func (r *Repository) Path() string {
	return r.path
}

// Store returns the raw loose-object store underlying this repository,
// for maintenance operations (pack/sweep) that must bypass the backend's
// chunking to enumerate and remove objects directly.
func (r *Repository) Store() *LooseStore {
	return r.store
}

// Backend returns the registered backend, for introspection (internal/stats,
// bupbackend.Backend.Inspect) and for Free.
func (r *Repository) Backend() Backend {
	return r.backend
}

// WriteBlob writes data as a Blob object through the backend (and so is
// subject to chunking).
func (r *Repository) WriteBlob(data []byte) (Fingerprint, error) {
	return r.backend.Write(KindBlob, data)
}

// ReadBlob reads and (if necessary) reassembles the blob with
// fingerprint fp.
func (r *Repository) ReadBlob(fp Fingerprint) ([]byte, error) {
	kind, data, err := r.backend.Read(fp)
	if err != nil {
		return nil, err
	}
	if kind != KindBlob {
		return nil, errors.Errorf("%s is not a blob", fp)
	}
	return data, nil
}

// WriteTree writes entries as a Tree object through the backend.
func (r *Repository) WriteTree(entries Tree) (Fingerprint, error) {
	return r.backend.Write(KindTree, EncodeTree(entries))
}

// ReadTree reads and parses the tree with fingerprint fp.
func (r *Repository) ReadTree(fp Fingerprint) (Tree, error) {
	kind, data, err := r.backend.Read(fp)
	if err != nil {
		return nil, err
	}
	if kind != KindTree {
		return nil, errors.Errorf("%s is not a tree", fp)
	}
	return DecodeTree(data)
}

// WriteCommit writes c as a Commit object through the backend.
func (r *Repository) WriteCommit(c Commit) (Fingerprint, error) {
	return r.backend.Write(KindCommit, EncodeCommit(c))
}

// ReadCommit reads and parses the commit with fingerprint fp.
func (r *Repository) ReadCommit(fp Fingerprint) (Commit, error) {
	kind, data, err := r.backend.Read(fp)
	if err != nil {
		return Commit{}, err
	}
	if kind != KindCommit {
		return Commit{}, errors.Errorf("%s is not a commit", fp)
	}
	return DecodeCommit(data)
}

// Free destroys the backend, as spec.md §4.5's free operation requires.
func (r *Repository) Free() {
	r.backend.Free()
}

// Exists reports whether a repository object directory is present at path.
func Exists(path string) bool {
	_, err := os.Stat(filepath.Join(path, objectsDir))
	return err == nil
}
