package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/godilite/cocina-grades/internal/repository"
)

// MockDocumentStore is a mock implementation of the DocumentStore interface
// for testing failure paths of the service layer. It uses function-based mocking.
type MockDocumentStore struct {
	GetFunc                func(ctx context.Context, collection, id string, dest any) error
	PutFunc                func(ctx context.Context, collection, id string, value any) error
	RemoveFunc             func(ctx context.Context, collection, id string) error
	ListFunc               func(ctx context.Context, collection string) ([]repository.Document, error)
	ReplaceCollectionsFunc func(ctx context.Context, collections map[string][]repository.Document) error
	RevisionFunc           func(ctx context.Context) (int64, error)
	EpochFunc              func(ctx context.Context) (string, error)
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, collection, id, dest)
	}
	return repository.ErrNotFound
}

func (m *MockDocumentStore) Put(ctx context.Context, collection, id string, value any) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, collection, id, value)
	}
	return errors.New("PutFunc not implemented")
}

func (m *MockDocumentStore) Remove(ctx context.Context, collection, id string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, collection, id)
	}
	return errors.New("RemoveFunc not implemented")
}

func (m *MockDocumentStore) List(ctx context.Context, collection string) ([]repository.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, collection)
	}
	return nil, nil
}

func (m *MockDocumentStore) ReplaceCollections(ctx context.Context, collections map[string][]repository.Document) error {
	if m.ReplaceCollectionsFunc != nil {
		return m.ReplaceCollectionsFunc(ctx, collections)
	}
	return errors.New("ReplaceCollectionsFunc not implemented")
}

func (m *MockDocumentStore) Revision(ctx context.Context) (int64, error) {
	if m.RevisionFunc != nil {
		return m.RevisionFunc(ctx)
	}
	return 0, nil
}

func (m *MockDocumentStore) Epoch(ctx context.Context) (string, error) {
	if m.EpochFunc != nil {
		return m.EpochFunc(ctx)
	}
	return "mock", nil
}

// MemoryStore is an in-memory DocumentStore that keeps documents as JSON,
// so values round-trip exactly as they would through the SQLite store.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]map[string]json.RawMessage
	revision int64
	epoch    string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]map[string]json.RawMessage),
		epoch: uuid.NewString(),
	}
}

func (m *MemoryStore) Get(_ context.Context, collection, id string, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	body, ok := m.docs[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	return json.Unmarshal(body, dest)
}

func (m *MemoryStore) Put(_ context.Context, collection, id string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]json.RawMessage)
	}
	m.docs[collection][id] = body
	m.revision++
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[collection][id]; !ok {
		return nil
	}
	delete(m.docs[collection], id)
	m.revision++
	return nil
}

func (m *MemoryStore) List(_ context.Context, collection string) ([]repository.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]repository.Document, 0, len(m.docs[collection]))
	for id, body := range m.docs[collection] {
		out = append(out, repository.Document{ID: id, Body: body})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ReplaceCollections(_ context.Context, collections map[string][]repository.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, docs := range collections {
		c := make(map[string]json.RawMessage, len(docs))
		for _, d := range docs {
			c[d.ID] = d.Body
		}
		m.docs[name] = c
	}
	m.revision++
	return nil
}

func (m *MemoryStore) Epoch(context.Context) (string, error) {
	return m.epoch, nil
}

func (m *MemoryStore) Revision(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revision, nil
}

// Raw stores a document body as is. Tests use it to plant corrupt data.
func (m *MemoryStore) Raw(collection, id string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]json.RawMessage)
	}
	m.docs[collection][id] = body
}
