// Package odb is the host-ODB stand-in: a small content-addressed object
// database implementing exactly the primitives spec.md §6 lists as
// consumed from "the surrounding version-control library" (hash-only,
// write, read, kind accessor, revwalk, commit/tree/entry accessors, pack
// builder, repository open/init/free). It exists so THE CORE
// (internal/rollsum, internal/chunker, internal/chunkpool,
// internal/manifest, internal/bupbackend, internal/walker,
// internal/maintenance) has a real object store to run against; see
// SPEC_FULL.md §2. It is plumbing, not the subject of this spec.
package odb

import (
	"crypto/sha1" //nolint:gosec // matches Git's own object-id width; see SPEC_FULL.md §2.
	"encoding/hex"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// fingerprintSize is the byte width of a Fingerprint: 20 bytes, the same
// width Git uses for a SHA-1 object id, so the 40-hex-character textual
// form spec.md §3 requires is exact.
const fingerprintSize = sha1.Size

// Fingerprint is the opaque, fixed-width object identifier spec.md §3
// describes: minted from object bytes plus object kind, compared by byte
// equality.
type Fingerprint [fingerprintSize]byte

// ZeroFingerprint is the all-zero fingerprint, used as a sentinel for "no
// parent commit" / "unborn HEAD".
var ZeroFingerprint Fingerprint

// String renders the fingerprint as 40 lowercase hex characters.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// IsZero reports whether f is the zero fingerprint.
func (f Fingerprint) IsZero() bool {
	return f == ZeroFingerprint
}

// ParseFingerprint decodes the 40-hex-character textual form back into a
// Fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	if len(s) != fingerprintSize*2 {
		return f, errors.Errorf("fingerprint %q: want %d hex chars, got %d", s, fingerprintSize*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return f, errors.Wrapf(err, "fingerprint %q", s)
	}
	copy(f[:], b)
	return f, nil
}

// HashBlob computes the fingerprint a blob of data would be assigned,
// without writing anything. This is the "hash-only" primitive spec.md §6
// names for the standalone hash-object operation, grounded on
// original_source/src/git2.c's cmd_hash_object (git_odb_hashfile), which
// needs no open repository to run.
func HashBlob(data []byte) Fingerprint {
	return hashObject(KindBlob, data)
}

// hashObject computes the fingerprint the host ODB would assign to an
// object of the given kind with these bytes, without persisting it. This
// is the "hash-only" primitive spec.md §6 names; ChunkPool.GetOrCreate
// calls it to look up a chunk before deciding whether to write it.
func hashObject(kind ObjectKind, data []byte) Fingerprint {
	h := sha1.New() //nolint:gosec // see fingerprintSize comment above.
	h.Write([]byte{byte(kind)})
	h.Write(data)
	var f Fingerprint
	copy(f[:], h.Sum(nil))
	return f
}
