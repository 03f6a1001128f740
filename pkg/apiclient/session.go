package apiclient

import "sync"

// Tokens is the pair handed out at login.
type Tokens struct {
	Access  string
	Refresh string
}

// SessionStore holds the current token pair. Implementations must be
// safe for concurrent use; the client reads and writes from many
// goroutines.
type SessionStore interface {
	Tokens() (Tokens, bool)
	SetTokens(Tokens)
	Clear()
}

// MemoryStore is the in-process SessionStore.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens Tokens
	set    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Tokens() (Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, s.set
}

func (s *MemoryStore) SetTokens(tokens Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	s.set = true
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	s.set = false
}
