package session

import "sync"

// MemoryStore holds the session in memory.
type MemoryStore struct {
	mu   sync.Mutex
	info Info
	ok   bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a store pre-populated with info.
func NewMemoryStoreWith(info Info) *MemoryStore {
	s := &MemoryStore{}
	if info.Valid() {
		s.info, s.ok = info.clone(), true
	}
	return s
}

func (s *MemoryStore) Load() (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ok {
		return Info{}, false
	}
	return s.info.clone(), true
}

func (s *MemoryStore) Save(info Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !info.Valid() {
		return errMissingToken
	}
	s.info, s.ok = info.clone(), true
	return nil
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info, s.ok = Info{}, false
}
