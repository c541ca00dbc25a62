package otp

import (
	"context"
	"sync"
)

// MemoryStore is a process-local CodeStore. Used when no Redis address
// is configured and in tests; codes do not survive a restart.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]StoredCode
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]StoredCode)}
}

func (s *MemoryStore) Put(ctx context.Context, phone string, code StoredCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = code
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, phone string) (StoredCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[phone]
	if !ok {
		return StoredCode{}, ErrCodeNotFound
	}
	return code, nil
}

func (s *MemoryStore) Consume(ctx context.Context, phone string) (StoredCode, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[phone]
	if !ok {
		return StoredCode{}, false, nil
	}
	delete(s.codes, phone)
	return code, true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
	return nil
}
