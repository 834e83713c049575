package odb

import (
	"github.com/ulrikstorm/gitbup/internal/errors"
)

// PackBuilder collects the reachable objects internal/maintenance's Repack
// gathers and persists them as a single unit, the way restic's
// RepackBlobs reads blobs out of a source repository and writes them
// into fresh pack files in one pass (checker/repacker.go). The real
// multi-object pack file format is out of this spec's scope (SPEC_FULL.md
// §2); this builder stands in for it by re-inserting every collected
// object into a destination Store, which is all Repack needs: the loose
// objects survive under a store that is no longer swept away.
type PackBuilder struct {
	dst     Store
	entries []packEntry
}

type packEntry struct {
	kind ObjectKind
	data []byte
}

// NewPackBuilder returns a builder that will persist collected objects
// into dst once Write is called.
func NewPackBuilder(dst Store) *PackBuilder {
	return &PackBuilder{dst: dst}
}

// Insert stages an object for inclusion in the pack. Fingerprint is
// recomputed on Write, so callers only need the kind and raw bytes they
// already have in hand from a Read.
func (b *PackBuilder) Insert(kind ObjectKind, data []byte) {
	b.entries = append(b.entries, packEntry{kind: kind, data: data})
}

// Len reports how many objects are currently staged.
func (b *PackBuilder) Len() int {
	return len(b.entries)
}

// Write persists every staged object into the destination store,
// returning the fingerprints assigned, in insertion order. Objects
// already present in dst are left untouched (Store.Write is idempotent
// by fingerprint).
func (b *PackBuilder) Write() ([]Fingerprint, error) {
	fps := make([]Fingerprint, 0, len(b.entries))
	for _, e := range b.entries {
		fp, err := b.dst.Write(e.kind, e.data)
		if err != nil {
			return nil, errors.Wrap(err, "pack write")
		}
		fps = append(fps, fp)
	}
	return fps, nil
}
