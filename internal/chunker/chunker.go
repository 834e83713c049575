// Package chunker drives the rolling checksum in internal/rollsum over a
// byte stream and cuts it into content-defined chunks, much as
// restic/chunker streams bytes through a Rabin fingerprint — except that
// here Split returns every cut point at once as a []Chunk, and the split
// policy and the checksum itself are fixed by the bup wire format this
// spec preserves bit-for-bit.
package chunker

import "github.com/ulrikstorm/gitbup/internal/rollsum"

const (
	// BlobBits is the log2 of the average/maximum chunk size.
	BlobBits = 12
	mask     = (1 << BlobBits) - 1

	// MinChunk and MaxChunk bound an emitted chunk's length. They are
	// equal in this format (MaxExtraBits == 0 in the source format),
	// which biases the split policy toward fixed-size blocks. They are
	// kept as-is because they decide where every blob is split.
	MinChunk = 1 << BlobBits
	MaxChunk = 1 << BlobBits
)

// Chunk describes one cut of the input: the half-open byte range
// [Start, Start+Length) within the buffer that was split.
type Chunk struct {
	Start  int
	Length int
}

// Split partitions buf into content-defined chunks per the boundary rule:
// a chunk ends when its length reaches MinChunk and either the rolling
// digest hits the mask or the length reaches MaxChunk, with the final
// byte of buf always flushing a trailing partial chunk. An empty buf
// yields no chunks.
func Split(buf []byte) []Chunk {
	if len(buf) == 0 {
		return nil
	}

	var chunks []Chunk
	var rs rollsum.Rollsum
	rs.Reset()

	start := 0
	length := 0
	for i, c := range buf {
		rs.Roll(c)
		length++

		atBoundary := length >= MinChunk && (rs.Digest()&mask == 0 || length >= MaxChunk)
		atEOF := i == len(buf)-1

		if atBoundary {
			chunks = append(chunks, Chunk{Start: start, Length: length})
			start = i + 1
			length = 0
		} else if atEOF && length > 0 {
			chunks = append(chunks, Chunk{Start: start, Length: length})
		}
	}

	return chunks
}
