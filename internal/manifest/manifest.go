// Package manifest implements the codec for the ordered (fingerprint,
// length) list spec.md §4.4 and §6 define: the bit-exact, stable on-disk
// format that lets a logical blob be reconstructed from its chunks.
package manifest

import (
	"bytes"
	"strconv"

	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

// Entry is one (fingerprint, length) pair in a manifest.
type Entry struct {
	Fingerprint odb.Fingerprint
	Length      uint64
}

// Manifest is the ordered, non-empty chunk sequence that reconstructs a
// logical blob. Concatenating the referenced chunks' bytes in order
// reproduces the original blob bit-exactly.
type Manifest []Entry

// TotalLength returns the sum of every entry's length — the size of the
// logical blob this manifest reconstructs.
func (m Manifest) TotalLength() uint64 {
	var total uint64
	for _, e := range m {
		total += e.Length
	}
	return total
}

// Encode renders m as the concatenation of "<40-hex fingerprint>
// <decimal length>\n" lines, per spec.md §6.
func Encode(m Manifest) []byte {
	var buf bytes.Buffer
	for _, e := range m {
		buf.WriteString(e.Fingerprint.String())
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatUint(e.Length, 10))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Decode parses buf as a manifest: zero or more lines, each exactly 40
// hex digits, one space, one or more decimal digits, then a newline. An
// empty buf decodes as a zero-element manifest, distinct from a format
// error. Any grammar violation — missing newline, wrong hex width,
// missing space, non-numeric length — returns errors.ErrManifestFormat.
func Decode(buf []byte) (Manifest, error) {
	if len(buf) == 0 {
		return nil, nil
	}

	var out Manifest
	for len(buf) > 0 {
		nl := bytes.IndexByte(buf, '\n')
		if nl < 0 {
			return nil, errors.Wrap(errors.ErrManifestFormat, "line missing trailing newline")
		}
		line := buf[:nl]
		buf = buf[nl+1:]

		sp := bytes.IndexByte(line, ' ')
		if sp != 40 {
			return nil, errors.Wrapf(errors.ErrManifestFormat, "expected 40 hex chars then a space, got %q", line)
		}

		fp, err := odb.ParseFingerprint(string(line[:sp]))
		if err != nil {
			return nil, errors.Wrap(errors.ErrManifestFormat, err.Error())
		}

		lengthField := line[sp+1:]
		if len(lengthField) == 0 {
			return nil, errors.Wrapf(errors.ErrManifestFormat, "missing length in line %q", line)
		}
		length, err := strconv.ParseUint(string(lengthField), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrManifestFormat, "invalid length in line %q: %v", line, err)
		}

		out = append(out, Entry{Fingerprint: fp, Length: length})
	}

	return out, nil
}
