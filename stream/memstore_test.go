package stream

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/BeameryHQ/async-callbacks/kvstore"
)

// memStore is a single process kvstore.Store keeping etcd's create semantics.
type memStore struct {
	mu       sync.Mutex
	revision int64
	items    map[string]*kvstore.KeyValue
}

func newMemStore() *memStore {
	return &memStore{
		items: map[string]*kvstore.KeyValue{},
	}
}

func (s *memStore) Create(ctx context.Context, key, value string, opts ...kvstore.CreateOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; ok {
		return kvstore.ErrKeyExists
	}
	s.revision++
	s.items[key] = &kvstore.KeyValue{
		Key:            key,
		CreateRevision: s.revision,
		ModRevision:    s.revision,
		Version:        1,
		Value:          value,
	}
	return nil
}

func (s *memStore) Get(ctx context.Context, key string) (*kvstore.KeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, ok := s.items[key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	cp := *kv
	return &cp, nil
}

func (s *memStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			delete(s.items, k)
			deleted++
		}
	}
	return deleted, nil
}

// values returns what is stored under prefix in creation order.
func (s *memStore) values(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*kvstore.KeyValue
	for k, v := range s.items {
		if strings.HasPrefix(k, prefix) {
			items = append(items, v)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreateRevision < items[j].CreateRevision
	})

	out := make([]string, 0, len(items))
	for _, kv := range items {
		out = append(out, kv.Value)
	}
	return out
}
