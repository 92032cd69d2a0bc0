package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process session store.
// Stored sessions are copied on the way in and out, so callers never share
// a *Session with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if now := s.now(); sess.expiredAt(now) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have replaced the entry.
		if cur, ok := s.sessions[sessionID]; ok && cur.expiredAt(now) {
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
		return nil, nil
	}
	return clone(sess), nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *clone(*sess)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if sess.expiredAt(now) {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func clone(s Session) *Session {
	if s.Emojis != nil {
		s.Emojis = append([]string(nil), s.Emojis...)
	}
	return &s
}

var _ Store = (*MemoryStore)(nil)
