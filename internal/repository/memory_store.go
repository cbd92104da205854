package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// MemoryStore is an in-process DocumentStore. Documents are kept as JSON
// so callers never share maps with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	raw, ok := s.data[collection][id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(collection, id)
	}
	return unmarshalDoc(raw)
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return remoteIO(err, "set", collection)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string][]byte)
	}
	s.data[collection][id] = raw
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[collection][id]
	if !ok {
		return notFound(collection, id)
	}
	doc, err := unmarshalDoc(raw)
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	if raw, err = json.Marshal(doc); err != nil {
		return remoteIO(err, "update", collection)
	}
	s.data[collection][id] = raw
	return nil
}

func (s *MemoryStore) Find(_ context.Context, collection, field string, value any) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data[collection]))
	for id := range s.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Record
	for _, id := range ids {
		doc, err := unmarshalDoc(s.data[collection][id])
		if err != nil {
			return nil, err
		}
		if field != "" && !sameValue(doc[field], value) {
			continue
		}
		out = append(out, Record{ID: id, Data: doc})
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.data[collection], id)
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

func unmarshalDoc(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("memory store: corrupt document: %w", err)
	}
	return doc, nil
}

// sameValue compares a decoded JSON value with a query value by their
// JSON forms, so 3 matches float64(3).
func sameValue(stored, want any) bool {
	a, err1 := json.Marshal(stored)
	b, err2 := json.Marshal(want)
	if err1 != nil || err2 != nil {
		return reflect.DeepEqual(stored, want)
	}
	return string(a) == string(b)
}
