package odb

import (
	"os"
	"path/filepath"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// objectsDir, like restic's backend.Paths, names the on-disk layout this
// store uses under a repository root.
const objectsDir = "objects"

// LooseStore is a loose-object host-ODB stand-in: every object lives as
// its own file at objects/<2-hex-prefix>/<38-hex-remainder>, the layout
// spec.md §4.7 names and original_source/src/git2.c's libgit2 backend
// assumes. Grounded on restic-restic/backend/local.go's OpenLocal /
// directory-per-prefix convention.
type LooseStore struct {
	root string
}

// OpenLooseStore opens (without creating) the object store rooted at dir.
func OpenLooseStore(dir string) (*LooseStore, error) {
	if _, err := os.Stat(filepath.Join(dir, objectsDir)); err != nil {
		return nil, errors.Wrapf(err, "open object store at %s", dir)
	}
	return &LooseStore{root: dir}, nil
}

// InitLooseStore creates a fresh, empty object store rooted at dir.
func InitLooseStore(dir string) (*LooseStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, objectsDir), 0o755); err != nil {
		return nil, errors.Wrapf(err, "init object store at %s", dir)
	}
	return &LooseStore{root: dir}, nil
}

func (s *LooseStore) pathFor(fp Fingerprint) string {
	hex := fp.String()
	return filepath.Join(s.root, objectsDir, hex[:2], hex[2:])
}

// Hash implements Store.
func (s *LooseStore) Hash(kind ObjectKind, data []byte) Fingerprint {
	return hashObject(kind, data)
}

// Has implements Store.
func (s *LooseStore) Has(fp Fingerprint) bool {
	_, err := os.Stat(s.pathFor(fp))
	return err == nil
}

// Write implements Store. A real git loose object prefixes its zlib
// stream with a "<type> <size>\0" header; this store does the same thing
// in miniature, a single kind byte ahead of the payload, so Read can
// report back the kind the object was written with.
func (s *LooseStore) Write(kind ObjectKind, data []byte) (Fingerprint, error) {
	fp := hashObject(kind, data)
	path := s.pathFor(fp)

	if s.Has(fp) {
		return fp, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Fingerprint{}, errors.Wrapf(errors.ErrStorage, "mkdir for %s: %v", fp, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-")
	if err != nil {
		return Fingerprint{}, errors.Wrapf(errors.ErrStorage, "create temp object for %s: %v", fp, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write([]byte{byte(kind)}); err != nil {
		tmp.Close()
		return Fingerprint{}, errors.Wrapf(errors.ErrStorage, "write object header %s: %v", fp, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Fingerprint{}, errors.Wrapf(errors.ErrStorage, "write object %s: %v", fp, err)
	}
	if err := tmp.Close(); err != nil {
		return Fingerprint{}, errors.Wrapf(errors.ErrStorage, "close object %s: %v", fp, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Fingerprint{}, errors.Wrapf(errors.ErrStorage, "rename object %s: %v", fp, err)
	}

	return fp, nil
}

// Read implements Store, splitting the kind byte Write prefixed back off
// the payload.
func (s *LooseStore) Read(fp Fingerprint) (ObjectKind, []byte, error) {
	raw, err := os.ReadFile(s.pathFor(fp))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil, errors.Wrapf(errors.ErrObjectNotFound, "%s", fp)
		}
		return 0, nil, errors.Wrapf(errors.ErrStorage, "read object %s: %v", fp, err)
	}
	if len(raw) == 0 {
		return 0, nil, errors.Wrapf(errors.ErrStorage, "object %s has no kind header", fp)
	}
	return ObjectKind(raw[0]), raw[1:], nil
}

// Remove deletes the loose object with fingerprint fp, used by
// internal/maintenance's post-repack sweep. A missing file is not an
// error: two sweeps racing (or a re-run after a partial sweep) must be
// idempotent. It then removes the object's two-character prefix
// directory if that left it empty; a directory that still holds other
// objects cannot be removed, and that error is ignored.
func (s *LooseStore) Remove(fp Fingerprint) error {
	path := s.pathFor(fp)
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrStorage, "remove loose object %s: %v", fp, err)
	}
	_ = os.Remove(filepath.Dir(path))
	return nil
}

// Walk calls fn once for every loose object fingerprint currently on
// disk. Directory-nonempty errors while descending into a two-character
// prefix directory are not possible here (os.ReadDir never errors on a
// directory that merely loses entries mid-scan). The prefix directories
// themselves are cleaned up by Remove, which ignores the error a
// non-empty directory gives.
func (s *LooseStore) Walk(fn func(Fingerprint) error) error {
	base := filepath.Join(s.root, objectsDir)
	prefixes, err := os.ReadDir(base)
	if err != nil {
		return errors.Wrapf(errors.ErrStorage, "list object store: %v", err)
	}
	for _, prefix := range prefixes {
		if !prefix.IsDir() || len(prefix.Name()) != 2 {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(base, prefix.Name()))
		if err != nil {
			return errors.Wrapf(errors.ErrStorage, "list object prefix %s: %v", prefix.Name(), err)
		}
		for _, e := range entries {
			fp, err := ParseFingerprint(prefix.Name() + e.Name())
			if err != nil {
				continue
			}
			if err := fn(fp); err != nil {
				return err
			}
		}
	}
	return nil
}

// Root returns the directory this store was opened or created at, as it
// was given (the repository root).
func (s *LooseStore) Root() string {
	return s.root
}
