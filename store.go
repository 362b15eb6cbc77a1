package companion

import "sync"

// Store is the caller-owned shared state holding the host-affinity mapping:
// logical companion URL -> the base URL the service last reported through the
// i-am response header. Recorded values are used verbatim as the base URL of
// subsequent requests.
//
// A Store is read and written from whichever goroutines issue requests, so
// implementations must be safe for concurrent use. Host applications that
// keep widget state elsewhere provide their own implementation; everyone else
// gets a private MemoryStore.
type Store interface {
	// CompanionHost returns the affine base URL recorded for key.
	CompanionHost(key string) (string, bool)
	// SetCompanionHost records domain as the affine base URL for key.
	SetCompanionHost(key, domain string)
}

// MemoryStore is the default in-memory Store. Last writer wins.
type MemoryStore struct {
	mu    sync.RWMutex
	hosts map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hosts: make(map[string]string)}
}

// CompanionHost returns the affine base URL recorded for key.
func (s *MemoryStore) CompanionHost(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	domain, ok := s.hosts[key]
	return domain, ok
}

// SetCompanionHost records domain as the affine base URL for key.
func (s *MemoryStore) SetCompanionHost(key, domain string) {
	s.mu.Lock()
	s.hosts[key] = domain
	s.mu.Unlock()
}
