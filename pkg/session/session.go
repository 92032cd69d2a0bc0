// Package session keeps the per-conversation state of the emotional diary.
//
// A diary session accumulates the emoji a user has sent and the latest
// interpretation the agent gave for them. The image command consumes that
// interpretation and resets the session. State is keyed by an opaque session
// ID and expires after a TTL.
//
// This package defines the Store interface with three backends:
//   - memory: in-process map for a single server or tests
//   - file: JSON files for the CLI diary
//   - redis: shared storage for multi-instance deployments
//
// # Usage
//
//	store := session.NewMemoryStore()
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    sess = session.New(id, session.DefaultTTL)
//	}
//	sess.AddEmojis("😊", "🌊")
//	err = store.Set(ctx, sess)
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultID is used by clients that never send a session ID.
const DefaultID = "default"

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores the diary state of one conversation.
type Session struct {
	ID             string    `json:"id"`
	Emojis         []string  `json:"emojis"`
	Interpretation string    `json:"interpretation,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// New creates an empty session. An empty id gets a random one.
func New(id string, ttl time.Duration) *Session {
	if id == "" {
		id = GenerateID()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.expiredAt(time.Now())
}

func (s *Session) expiredAt(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AddEmojis appends symbols to the accumulated sequence.
func (s *Session) AddEmojis(symbols ...string) {
	s.Emojis = append(s.Emojis, symbols...)
}

// SetInterpretation records the latest interpretation.
func (s *Session) SetInterpretation(text string) {
	s.Interpretation = text
}

// HasInterpretation reports whether an interpretation is waiting for the
// image command.
func (s *Session) HasInterpretation() bool {
	return s.Interpretation != ""
}

// Reset clears the accumulated emoji and the interpretation.
func (s *Session) Reset() {
	s.Emojis = nil
	s.Interpretation = ""
}

// Touch marks the session as updated and extends its expiry.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// CleanupInterval is how often long-running servers sweep expired sessions.
const CleanupInterval = 10 * time.Minute

// Sweep calls store.Cleanup on every tick until ctx is done or tick is
// closed. Failed sweeps are reported to onErr, which may be nil.
func Sweep(ctx context.Context, store Store, tick <-chan time.Time, onErr func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-tick:
			if !ok {
				return
			}
			if err := store.Cleanup(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
