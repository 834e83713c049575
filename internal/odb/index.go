package odb

import (
	"os"
	"path/filepath"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// indexFile names the staging area add populates and commit consumes,
// grounded on original_source/src/git2.c's cmd_add/cmd_commit calling
// git_index_add/git_index_write_tree. A real git index additionally
// tracks mode, size and mtime per entry; this stand-in only needs enough
// to build a tree at commit time, so it reuses the Tree encoding
// directly.
const indexFile = "index"

func (r *Repository) indexPath() string {
	return filepath.Join(r.path, indexFile)
}

// ReadIndex loads the current staging area, or an empty one if nothing
// has been added yet.
func (r *Repository) ReadIndex() (Tree, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrStorage, err.Error())
	}
	return DecodeTree(data)
}

// writeIndex persists idx, overwriting whatever was staged before.
func (r *Repository) writeIndex(idx Tree) error {
	return os.WriteFile(r.indexPath(), EncodeTree(idx), 0o644)
}

// StageBlob writes data as a blob through the repository's backend and
// records name in the staging area pointing at the resulting
// fingerprint, replacing any existing entry with that name. This is the
// Go shape of cmd_add: hash-and-write the file, then index_add the
// resulting oid.
func (r *Repository) StageBlob(name string, data []byte) (Fingerprint, error) {
	fp, err := r.WriteBlob(data)
	if err != nil {
		return Fingerprint{}, err
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return Fingerprint{}, err
	}
	replaced := false
	for i, e := range idx {
		if e.Name == name {
			idx[i] = TreeEntry{Name: name, Kind: KindBlob, Fingerprint: fp}
			replaced = true
			break
		}
	}
	if !replaced {
		idx = append(idx, TreeEntry{Name: name, Kind: KindBlob, Fingerprint: fp})
	}
	if err := r.writeIndex(idx); err != nil {
		return Fingerprint{}, errors.Wrap(errors.ErrStorage, err.Error())
	}
	return fp, nil
}

// WriteIndexTree writes the current staging area as a tree object,
// mirroring git_index_write_tree.
func (r *Repository) WriteIndexTree() (Fingerprint, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return Fingerprint{}, err
	}
	return r.WriteTree(idx)
}
