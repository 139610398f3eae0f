package source

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory value source keyed by subject identifier and
// physical storage key. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	subjects map[string]map[string]any
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subjects: map[string]map[string]any{}}
}

// Read implements fields.ValueSource.
func (s *MemoryStore) Read(_ context.Context, subject, key string) (any, bool, error) {
	id, storageKey, err := resolveKey(subject, key)
	if err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.subjects[id][storageKey]
	return value, ok, nil
}

// Set stores value for the bare key of subject.
func (s *MemoryStore) Set(subject, key string, value any) error {
	id, storageKey, err := resolveKey(subject, key)
	if err != nil {
		return err
	}
	s.SetRaw(id, storageKey, value)
	return nil
}

// SetAll stores every bare key of values for subject.
func (s *MemoryStore) SetAll(subject string, values map[string]any) error {
	parsed, err := ParseSubject(subject)
	if err != nil {
		return err
	}
	id, err := parsed.Identifier()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.record(id)
	for key, value := range values {
		record[parsed.StorageKey(key)] = value
	}
	return nil
}

// SetRaw stores value under a canonical subject identifier and a physical
// storage key, bypassing subject parsing. Snapshots use it to copy items
// verbatim.
func (s *MemoryStore) SetRaw(identifier, storageKey string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(identifier)[storageKey] = value
}

// Keys returns the physical storage keys held for subject, sorted.
func (s *MemoryStore) Keys(subject string) ([]string, error) {
	id, _, err := resolveKey(subject, "")
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.subjects[id]))
	for key := range s.subjects[id] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// record must be called with the write lock held.
func (s *MemoryStore) record(id string) map[string]any {
	if s.subjects == nil {
		s.subjects = map[string]map[string]any{}
	}
	record, ok := s.subjects[id]
	if !ok {
		record = map[string]any{}
		s.subjects[id] = record
	}
	return record
}
