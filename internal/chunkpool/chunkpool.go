// Package chunkpool implements the content-addressed, single-instance
// chunk store spec.md §4.3 describes: at most one descriptor per
// fingerprint, writing new chunks through to the host ODB and tracking
// running count/total-bytes aggregates. Grounded on
// original_source/src/chunk_utils.c's chunk_get_or_create/chunk_pool_free,
// reimplemented as a hash-keyed map per the "manual linked list" redesign
// flag in spec.md §9 instead of the source's pointer-linked chunk list.
package chunkpool

import (
	"github.com/ulrikstorm/gitbup/internal/debug"
	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

// Descriptor is one stored chunk: its fingerprint and byte length.
type Descriptor struct {
	Fingerprint odb.Fingerprint
	Length      int
}

// Pool is a content-addressed set of Descriptor, content-addressed by
// fingerprint as spec.md §3's ChunkPool invariants require. It is owned
// by exactly one internal/bupbackend.Backend and is not internally
// synchronized — see spec.md §5.
type Pool struct {
	store  odb.Store
	chunks map[odb.Fingerprint]Descriptor
	bytes  int64
}

// New returns an empty pool backed by store. store is the raw,
// chunking-unaware host-ODB handle the pool writes chunk blobs through —
// never the internal/bupbackend.Backend itself, which would recurse.
func New(store odb.Store) *Pool {
	return &Pool{
		store:  store,
		chunks: make(map[odb.Fingerprint]Descriptor),
	}
}

// GetOrCreate returns the existing descriptor for data if one is already
// in the pool, or writes data as a new Blob object through the host ODB
// and inserts a new descriptor otherwise. Implements spec.md §4.3.
func (p *Pool) GetOrCreate(data []byte) (Descriptor, error) {
	fp := p.store.Hash(odb.KindBlob, data)
	if d, ok := p.chunks[fp]; ok {
		debug.Log("chunkpool", "reused chunk %s (%d bytes)", fp, d.Length)
		return d, nil
	}

	written, err := p.store.Write(odb.KindBlob, data)
	if err != nil {
		return Descriptor{}, errors.Wrap(errors.ErrStorage, err.Error())
	}

	d := Descriptor{Fingerprint: written, Length: len(data)}
	p.chunks[written] = d
	p.bytes += int64(len(data))
	debug.Log("chunkpool", "created chunk %s (%d bytes)", written, len(data))
	return d, nil
}

// FreeAll drops every descriptor and zeroes the aggregates. It does not
// delete the underlying ODB objects.
func (p *Pool) FreeAll() {
	p.chunks = make(map[odb.Fingerprint]Descriptor)
	p.bytes = 0
}

// Count returns the number of distinct chunks currently in the pool.
func (p *Pool) Count() int {
	return len(p.chunks)
}

// TotalBytes returns the sum of every descriptor's length.
func (p *Pool) TotalBytes() int64 {
	return p.bytes
}
