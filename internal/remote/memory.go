package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and offline runs. Documents
// are returned in insertion order.
type MemoryStore struct {
	mu   sync.Mutex
	seq  int
	docs map[string]map[string]memDoc

	// Fail, when set, is consulted before every operation; a non-nil
	// result is returned as the operation's error.
	Fail func(op, id string) error
}

type memDoc struct {
	seq  int
	body []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]memDoc)}
}

func (m *MemoryStore) fail(op, id string) error {
	if m.Fail == nil {
		return nil
	}
	return m.Fail(op, id)
}

func (m *MemoryStore) Query(_ context.Context, collection string, filter Filter) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("query", ""); err != nil {
		return nil, err
	}

	type hit struct {
		seq int
		doc Document
	}
	var hits []hit
	for id, d := range m.docs[collection] {
		if filter.Match(d.body) {
			hits = append(hits, hit{d.seq, Document{ID: id, Body: append([]byte(nil), d.body...)}})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })

	out := make([]Document, len(hits))
	for i := range hits {
		out[i] = hits[i].doc
	}
	return out, nil
}

func (m *MemoryStore) Insert(_ context.Context, collection string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("insert", ""); err != nil {
		return "", err
	}

	id := uuid.NewString()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]memDoc)
	}
	m.seq++
	m.docs[collection][id] = memDoc{seq: m.seq, body: append([]byte(nil), body...)}
	return id, nil
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update", id); err != nil {
		return err
	}

	d, ok := m.docs[collection][id]
	if !ok {
		return fmt.Errorf("document %s/%s: %w", collection, id, common.ErrorNotFound)
	}
	d.body = append([]byte(nil), body...)
	m.docs[collection][id] = d
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete", id); err != nil {
		return err
	}

	if _, ok := m.docs[collection][id]; !ok {
		return fmt.Errorf("document %s/%s: %w", collection, id, common.ErrorNotFound)
	}
	delete(m.docs[collection], id)
	return nil
}

// Len returns the number of documents in collection.
func (m *MemoryStore) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection])
}
