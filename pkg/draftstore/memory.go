package draftstore

import (
	"context"
	"sync"
)

// MemoryStore keeps drafts in process memory. Drafts never expire.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[memoryKey]Fields
}

type memoryKey struct {
	session string
	ns      Namespace
}

var (
	_ Store     = (*MemoryStore)(nil)
	_ Discarder = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[memoryKey]Fields)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string, ns Namespace) (Fields, error) {
	if err := CheckKey(sessionID, ns); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[memoryKey{sessionID, ns}]
	if !ok {
		return Fields{}, nil
	}
	return draft.Clone(), nil
}

func (s *MemoryStore) Field(_ context.Context, sessionID string, ns Namespace, name string) (any, bool, error) {
	if err := CheckKey(sessionID, ns); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.drafts[memoryKey{sessionID, ns}][name]
	if list, isList := value.([]string); isList {
		value = append([]string(nil), list...)
	}
	return value, ok, nil
}

func (s *MemoryStore) Merge(_ context.Context, sessionID string, ns Namespace, fields Fields) error {
	if err := CheckKey(sessionID, ns); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memoryKey{sessionID, ns}
	current, ok := s.drafts[key]
	if !ok {
		current = Fields{}
	}
	s.drafts[key] = current.Overlay(fields)
	return nil
}

func (s *MemoryStore) Discard(_ context.Context, sessionID string, ns Namespace) error {
	if err := CheckKey(sessionID, ns); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, memoryKey{sessionID, ns})
	return nil
}
