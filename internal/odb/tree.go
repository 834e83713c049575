package odb

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// TreeEntry is one directory entry: a name, the kind of object it points
// at, and that object's fingerprint. Grounded on the tree-entry accessors
// original_source/src/git2.c and bup_traversal.c walk
// (git_tree_entry_id/git_tree_entry_type/git_tree_entry_to_object).
type TreeEntry struct {
	Name        string
	Kind        ObjectKind
	Fingerprint Fingerprint
}

// Tree is an ordered directory listing, always kept sorted by name so
// its encoding is deterministic.
type Tree []TreeEntry

// EncodeTree serializes entries as sorted "<kind> <40-hex> <name>\n"
// lines, the minimal tree format this ODB stand-in needs (the real
// on-disk tree format is out of this spec's scope; see SPEC_FULL.md §2).
func EncodeTree(entries Tree) []byte {
	sorted := append(Tree(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(strconv.Itoa(int(e.Kind)))
		buf.WriteByte(' ')
		buf.WriteString(e.Fingerprint.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// DecodeTree parses the format EncodeTree produces.
func DecodeTree(data []byte) (Tree, error) {
	var out Tree
	for _, line := range bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		fields := bytes.SplitN(line, []byte(" "), 3)
		if len(fields) != 3 {
			return nil, errors.Errorf("malformed tree entry %q", line)
		}
		kindN, err := strconv.Atoi(string(fields[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "tree entry kind %q", fields[0])
		}
		fp, err := ParseFingerprint(string(fields[1]))
		if err != nil {
			return nil, errors.Wrapf(err, "tree entry fingerprint")
		}
		out = append(out, TreeEntry{Name: string(fields[2]), Kind: ObjectKind(kindN), Fingerprint: fp})
	}
	return out, nil
}
