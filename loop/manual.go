// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package loop

import (
	"context"
	"sync"
	"time"
)

// Manual is a Scheduler driven explicitly by its
// owner. Time only advances through Tick.
// Post and RequestFrame are safe for concurrent use.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	frames []func(time.Time)
	posts  []func()
	posted int
	notify chan struct{}
}

// NewManual creates a Manual scheduler whose clock
// starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, notify: make(chan struct{}, 1)}
}

// RequestFrame implements Scheduler.
func (m *Manual) RequestFrame(f func(time.Time)) {
	m.mu.Lock()
	m.frames = append(m.frames, f)
	m.mu.Unlock()
}

// Post implements Scheduler.
func (m *Manual) Post(f func()) {
	m.mu.Lock()
	m.posts = append(m.posts, f)
	m.posted++
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Now returns the scheduler's clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Posted returns the number of functions ever
// posted to m.
func (m *Manual) Posted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posted
}

// Pending returns the number of frame requests that
// the next Tick would serve.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// Drain runs posted functions until none is left and
// returns how many ran.
func (m *Manual) Drain() (n int) {
	for {
		m.mu.Lock()
		ps := m.posts
		m.posts = nil
		m.mu.Unlock()
		if len(ps) == 0 {
			return
		}
		for _, f := range ps {
			f()
		}
		n += len(ps)
	}
}

// Tick advances the clock by dt, drains posted
// functions, then serves the frame requests made
// before the call. Requests made while serving are
// left for the next Tick. It returns the number of
// frame callbacks served.
func (m *Manual) Tick(dt time.Duration) int {
	m.mu.Lock()
	m.now = m.now.Add(dt)
	m.mu.Unlock()
	m.Drain()
	m.mu.Lock()
	fs, now := m.frames, m.now
	m.frames = nil
	m.mu.Unlock()
	for _, f := range fs {
		f(now)
	}
	return len(fs)
}

// Await blocks until a function is posted, then
// drains. It fails only if ctx is done first.
func (m *Manual) Await(ctx context.Context) error {
	for {
		if m.Drain() > 0 {
			return nil
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
