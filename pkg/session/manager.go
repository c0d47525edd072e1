package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stepwise/pkg/demo"
	serr "github.com/matzehuels/stepwise/pkg/errors"
	"github.com/matzehuels/stepwise/pkg/observability"
	"github.com/matzehuels/stepwise/pkg/step"
)

// DefaultMaxDepth bounds the number of recorded steps per session.
const DefaultMaxDepth = 10_000

// View is a session together with its current frame.
type View struct {
	Session *Session        `json:"session"`
	Frame   step.Frame[int] `json:"frame"`
}

// Manager implements create/next/prev/reset/get/delete on top of a Store.
// Operations on the same session are serialised; different sessions
// proceed in parallel.
type Manager struct {
	store    Store
	ttl      time.Duration
	maxDepth int
	logger   *log.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the session lifetime. Every step extends it.
func WithTTL(ttl time.Duration) Option { return func(m *Manager) { m.ttl = ttl } }

// WithMaxDepth bounds how many steps a session may record.
func WithMaxDepth(n int) Option { return func(m *Manager) { m.maxDepth = n } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// NewManager creates a manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		ttl:      DefaultTTL,
		maxDepth: DefaultMaxDepth,
		now:      time.Now,
		locks:    make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	return m
}

// Store returns the underlying store.
func (m *Manager) Store() Store { return m.store }

// Create starts a new session for the named demo.
func (m *Manager) Create(ctx context.Context, algorithm string, input []int) (*View, error) {
	c, err := demo.New(algorithm, input)
	if err != nil {
		return nil, err
	}
	now := m.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Algorithm: algorithm,
		Input:     slices.Clone(input),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, serr.Wrap(serr.ErrCodeInternal, err, "save session")
	}
	observability.Session().OnCreate(ctx, algorithm)
	m.logger.Debug("session created", "id", sess.ID, "algorithm", algorithm, "size", len(input))
	return &View{Session: sess, Frame: c.Frame()}, nil
}

// Get returns a session and its current frame.
func (m *Manager) Get(ctx context.Context, id string) (*View, error) {
	unlock := m.lock(id)
	defer unlock()

	sess, c, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &View{Session: sess, Frame: c.Frame()}, nil
}

// Next performs one step. At the end of the run it changes nothing.
func (m *Manager) Next(ctx context.Context, id string) (*View, error) {
	return m.apply(ctx, id, observability.ActionNext, func(c step.Stepper[int]) (step.Frame[int], error) {
		if !c.Done() && c.Depth() >= m.maxDepth {
			return c.Frame(), serr.New(serr.ErrCodeInvalidInput, "session reached the step limit of %d", m.maxDepth)
		}
		return c.Next(), nil
	})
}

// Prev undoes one step. With nothing to undo it changes nothing.
func (m *Manager) Prev(ctx context.Context, id string) (*View, error) {
	return m.apply(ctx, id, observability.ActionPrev, func(c step.Stepper[int]) (step.Frame[int], error) {
		return c.Prev(), nil
	})
}

// Reset returns the session to its input.
func (m *Manager) Reset(ctx context.Context, id string) (*View, error) {
	return m.apply(ctx, id, observability.ActionReset, func(c step.Stepper[int]) (step.Frame[int], error) {
		return c.Reset(), nil
	})
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := serr.ValidateSessionID(id); err != nil {
		return err
	}
	unlock := m.lock(id)
	defer unlock()

	sess, err := m.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrExpired):
		return serr.New(serr.ErrCodeSessionExpired, "session %s expired", id)
	case err != nil:
		return serr.Wrap(serr.ErrCodeInternal, err, "load session %s", id)
	case sess == nil:
		return serr.New(serr.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return serr.Wrap(serr.ErrCodeInternal, err, "delete session %s", id)
	}
	observability.Session().OnDelete(ctx)
	m.logger.Debug("session deleted", "id", id)
	return nil
}

// Cleanup removes expired sessions from the store.
func (m *Manager) Cleanup(ctx context.Context) error {
	return m.store.Cleanup(ctx)
}

func (m *Manager) apply(ctx context.Context, id, action string, fn func(step.Stepper[int]) (step.Frame[int], error)) (*View, error) {
	unlock := m.lock(id)
	defer unlock()

	sess, c, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	frame, err := fn(c)
	if err != nil {
		return nil, err
	}

	now := m.now()
	sess.Depth = c.Depth()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, serr.Wrap(serr.ErrCodeInternal, err, "save session %s", id)
	}
	observability.Session().OnStep(ctx, sess.Algorithm, action, sess.Depth)
	return &View{Session: sess, Frame: frame}, nil
}

// load fetches a session and rebuilds its controller by replaying Depth
// steps from the input.
func (m *Manager) load(ctx context.Context, id string) (*Session, step.Stepper[int], error) {
	if err := serr.ValidateSessionID(id); err != nil {
		return nil, nil, err
	}
	sess, err := m.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrExpired):
		observability.Session().OnExpired(ctx)
		return nil, nil, serr.New(serr.ErrCodeSessionExpired, "session %s expired", id)
	case err != nil:
		return nil, nil, serr.Wrap(serr.ErrCodeInternal, err, "load session %s", id)
	case sess == nil:
		return nil, nil, serr.New(serr.ErrCodeSessionNotFound, "session %s not found", id)
	}

	c, err := Replay(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	return sess, c, nil
}

// Replay rebuilds the controller of a stored session. All but the last
// step are skipped without snapshots, so replay allocates one snapshot
// regardless of depth; Prev on the result still works.
func Replay(ctx context.Context, sess *Session) (step.Stepper[int], error) {
	start := time.Now()
	c, err := demo.New(sess.Algorithm, sess.Input)
	if err != nil {
		return nil, err
	}
	if sk, ok := c.(step.Skipper); ok && sess.Depth > 1 {
		sk.Skip(sess.Depth - 1)
	}
	for c.Depth() < sess.Depth {
		if c.Done() {
			return nil, serr.New(serr.ErrCodeInternal,
				"session %s: depth %d exceeds the %d steps of %s", sess.ID, sess.Depth, c.Depth(), sess.Algorithm)
		}
		c.Next()
	}
	observability.Session().OnReplay(ctx, sess.Algorithm, sess.Depth, time.Since(start))
	return c, nil
}

// lock serialises operations on one session id.
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
