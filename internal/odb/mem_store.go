package odb

import (
	"sync"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

// MemStore is an in-memory Store, grounded on
// restic-restic/backend/mem_backend.go's map-backed mock backend. It is
// used by the test suite in place of a LooseStore so tests don't pay for
// real filesystem I/O on every chunk write.
type memObject struct {
	kind ObjectKind
	data []byte
}

type MemStore struct {
	mu   sync.Mutex
	data map[Fingerprint]memObject
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[Fingerprint]memObject)}
}

// Hash implements Store.
func (m *MemStore) Hash(kind ObjectKind, data []byte) Fingerprint {
	return hashObject(kind, data)
}

// Has implements Store.
func (m *MemStore) Has(fp Fingerprint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[fp]
	return ok
}

// Write implements Store.
func (m *MemStore) Write(kind ObjectKind, data []byte) (Fingerprint, error) {
	fp := hashObject(kind, data)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[fp]; !ok {
		cp := make([]byte, len(data))
		copy(cp, data)
		m.data[fp] = memObject{kind: kind, data: cp}
	}
	return fp, nil
}

// Read implements Store.
func (m *MemStore) Read(fp Fingerprint) (ObjectKind, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.data[fp]
	if !ok {
		return 0, nil, errors.Wrapf(errors.ErrObjectNotFound, "%s", fp)
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return obj.kind, cp, nil
}

// Remove deletes the object with fingerprint fp, if present.
func (m *MemStore) Remove(fp Fingerprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, fp)
	return nil
}

// Walk calls fn once per stored fingerprint.
func (m *MemStore) Walk(fn func(Fingerprint) error) error {
	m.mu.Lock()
	fps := make([]Fingerprint, 0, len(m.data))
	for fp := range m.data {
		fps = append(fps, fp)
	}
	m.mu.Unlock()

	for _, fp := range fps {
		if err := fn(fp); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of objects currently stored.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
