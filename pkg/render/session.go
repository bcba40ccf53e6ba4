// pkg/render/session.go
package render

import (
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-cannon/pkg/clock"
	"github.com/opd-ai/go-cannon/pkg/engine"
)

// Session drives one trainer front end: every Step samples the clock,
// advances the engine, publishes a snapshot and draws a frame. Step must
// be called from a single goroutine; LastFrame may be read from any.
type Session struct {
	Engine   *engine.Engine
	Controls *Controls
	Clock    *clock.FrameClock
	Source   clock.Source
	// Store is optional; when set every frame's snapshot is published.
	Store    *engine.SnapshotStore
	Renderer Renderer

	lastFrame atomic.Int64
	frames    atomic.Uint64
}

// NewSession creates a session with a monotonic time source and a clock
// capped at maxDelta seconds.
func NewSession(e *engine.Engine, controls *Controls, renderer Renderer, store *engine.SnapshotStore, maxDelta float64) *Session {
	return &Session{
		Engine:   e,
		Controls: controls,
		Clock:    clock.New(maxDelta),
		Source:   clock.NewTimeProvider(),
		Store:    store,
		Renderer: renderer,
	}
}

// Step runs one frame and returns the snapshot it drew
func (s *Session) Step() *engine.Snapshot {
	now := s.Source.Now()
	s.Engine.Tick(s.Clock.Sample(now))

	snap := s.Engine.Snapshot()
	if s.Store != nil {
		s.Store.Publish(snap)
	}
	if s.Renderer != nil {
		Frame(s.Renderer, snap, s.Controls.HUD(snap))
	}

	s.lastFrame.Store(now.UnixNano())
	s.frames.Add(1)
	return snap
}

// LastFrame returns the time of the last Step, zero before the first
func (s *Session) LastFrame() time.Time {
	ns := s.lastFrame.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Frames returns the number of completed steps
func (s *Session) Frames() uint64 {
	return s.frames.Load()
}
