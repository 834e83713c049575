package odb

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// The ref layout below is a minimal stand-in for Git's refs/heads plus a
// symbolic HEAD, just enough for Repository.Head/SetHead and the
// revwalk in walker.go to mean something.
const (
	headFile        = "HEAD"
	defaultBranch   = "refs/heads/main"
	refsHeadsPrefix = "refs/heads/"
)

func (r *Repository) headRefPath() string {
	return filepath.Join(r.path, filepath.FromSlash(defaultBranch))
}

// Head returns the fingerprint of the commit refs/heads/main currently
// points at, and false if the branch is unborn (no commit yet).
func (r *Repository) Head() (Fingerprint, bool, error) {
	data, err := os.ReadFile(r.headRefPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Fingerprint{}, false, nil
		}
		return Fingerprint{}, false, errors.Wrap(errors.ErrStorage, err.Error())
	}
	fp, err := ParseFingerprint(strings.TrimSpace(string(data)))
	if err != nil {
		return Fingerprint{}, false, errors.Wrap(err, "parse HEAD")
	}
	return fp, true, nil
}

// SetHead updates refs/heads/main to point at fp, creating it if needed.
func (r *Repository) SetHead(fp Fingerprint) error {
	path := r.headRefPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrStorage, err.Error())
	}
	if err := os.WriteFile(path, []byte(fp.String()+"\n"), 0o644); err != nil {
		return errors.Wrap(errors.ErrStorage, err.Error())
	}
	return nil
}

func writeHeadSymref(repoPath string) error {
	path := filepath.Join(repoPath, headFile)
	return os.WriteFile(path, []byte("ref: "+defaultBranch+"\n"), 0o644)
}
