// Package observability lets the server attach metrics to session, render
// and cache events without those packages importing a metrics backend.
//
// Library code reports through the accessors:
//
//	observability.Session().OnReplay(ctx, algorithm, depth, time.Since(start))
//
// and the process owner swaps in real hooks once at startup:
//
//	observability.SetCacheHooks(promHooks{})
//
// Until then every accessor returns a no-op implementation.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Step actions reported to SessionHooks.OnStep.
const (
	ActionNext  = "next"
	ActionPrev  = "prev"
	ActionReset = "reset"
)

// SessionHooks receives events from the session manager.
type SessionHooks interface {
	OnCreate(ctx context.Context, algorithm string)
	// OnStep fires after next, prev or reset; depth is the new position.
	OnStep(ctx context.Context, algorithm, action string, depth int)
	// OnReplay fires after a controller is rebuilt by replaying its recorded steps.
	OnReplay(ctx context.Context, algorithm string, steps int, duration time.Duration)
	OnDelete(ctx context.Context)
	// OnExpired fires when a lookup finds an expired session.
	OnExpired(ctx context.Context)
}

// RenderHooks receives one event per frame produced by the renderer,
// including failed renders.
type RenderHooks interface {
	OnRender(ctx context.Context, format, view string, size int, duration time.Duration, err error)
}

// CacheHooks receives lookups and writes, labelled by key type.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// Noop implementations, also handy for embedding in partial test hooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnCreate(context.Context, string)                     {}
func (NoopSessionHooks) OnStep(context.Context, string, string, int)          {}
func (NoopSessionHooks) OnReplay(context.Context, string, int, time.Duration) {}
func (NoopSessionHooks) OnDelete(context.Context)                             {}
func (NoopSessionHooks) OnExpired(context.Context)                            {}

type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRender(context.Context, string, string, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// slot holds one installed hook set. Hooks are boxed so implementations of
// different concrete types can replace each other.
type slot[H any] struct {
	p   atomic.Pointer[box[H]]
	def H
}

type box[H any] struct{ h H }

func (s *slot[H]) get() H {
	if b := s.p.Load(); b != nil {
		return b.h
	}
	return s.def
}

func (s *slot[H]) set(h H) { s.p.Store(&box[H]{h}) }

func (s *slot[H]) reset() { s.p.Store(nil) }

var (
	sessionSlot = slot[SessionHooks]{def: NoopSessionHooks{}}
	renderSlot  = slot[RenderHooks]{def: NoopRenderHooks{}}
	cacheSlot   = slot[CacheHooks]{def: NoopCacheHooks{}}
)

// SetSessionHooks installs h. A nil h is ignored.
func SetSessionHooks(h SessionHooks) {
	if h != nil {
		sessionSlot.set(h)
	}
}

// SetRenderHooks installs h. A nil h is ignored.
func SetRenderHooks(h RenderHooks) {
	if h != nil {
		renderSlot.set(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// Session, Render and Cache return the installed hooks.
func Session() SessionHooks { return sessionSlot.get() }
func Render() RenderHooks   { return renderSlot.get() }
func Cache() CacheHooks     { return cacheSlot.get() }

// Reset puts the no-op hooks back. Tests that install hooks defer it.
func Reset() {
	sessionSlot.reset()
	renderSlot.reset()
	cacheSlot.reset()
}
