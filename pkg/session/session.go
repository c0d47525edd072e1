// Package session persists step-through runs for the HTTP API.
//
// A session records which demo runs on which input and how many steps have
// been taken. Controller state is never stored: strategies are
// deterministic, so the [Manager] rebuilds the controller by replaying
// Depth steps from the input. This keeps stored sessions tiny and the
// backends interchangeable:
//   - memory: in-process map for development and tests
//   - file: one JSON file per session
//   - redis: shared storage with native expiry
//   - mongo: shared storage with a TTL index
//
// # Usage
//
//	store := session.NewMemoryStore()
//	m := session.NewManager(store, session.WithTTL(time.Hour))
//
//	v, err := m.Create(ctx, "heapsort", []int{4, 10, 3, 5, 1})
//	v, err = m.Next(ctx, v.Session.ID)
//	fmt.Println(v.Frame.Values, v.Frame.Highlight)
package session

import (
	"context"
	"errors"
	"slices"
	"time"
)

// Sentinel errors for session operations.
var (
	// ErrExpired is returned by stores when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default session lifetime, extended on every step.
const DefaultTTL = 24 * time.Hour

// Session is the persisted form of a step-through run.
type Session struct {
	ID        string    `json:"id" bson:"_id"`
	Algorithm string    `json:"algorithm" bson:"algorithm"`
	Input     []int     `json:"input" bson:"input"`
	Depth     int       `json:"depth" bson:"depth"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Input = slices.Clone(s.Input)
	return &c
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous version.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
