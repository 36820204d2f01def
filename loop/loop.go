// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package loop implements the self-rescheduling frame
// task and the host scheduler it runs on.
package loop

import (
	"log/slog"
	"time"
)

// Scheduler is the host's event loop.
// Functions passed to it run one at a time, on a
// single goroutine that owns all frame state.
type Scheduler interface {
	// RequestFrame arranges for f to be called once,
	// before the next display refresh.
	RequestFrame(f func(now time.Time))
	// Post arranges for f to be called once, as soon
	// as possible. It can be called from any
	// goroutine and must not block.
	Post(f func())
}

// MaxDelta is the longest interval between two ticks
// that is added to the elapsed time.
const MaxDelta = 100 * time.Millisecond

// Loop is a frame task that requests itself again at
// the end of every tick while it is running.
// Its methods must be called from the scheduler's
// goroutine.
type Loop struct {
	sched Scheduler
	frame func(elapsed time.Duration)
	log   *slog.Logger

	running bool
	// Incremented on every Start. A tick whose
	// generation differs is stale and does nothing.
	gen     uint64
	fresh   bool
	last    time.Time
	elapsed time.Duration
	frames  int
}

// New creates a stopped loop that calls frame on
// every tick with the total time spent running.
// log may be nil.
func New(sched Scheduler, frame func(elapsed time.Duration), log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{sched: sched, frame: frame, log: log}
}

// Start starts l. It does nothing if l is running.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.gen++
	l.fresh = true
	l.log.Debug("frame loop started", "elapsed", l.elapsed, "frames", l.frames)
	l.request(l.gen)
}

// Stop stops l. The pending tick, if any, becomes a
// no-op. Elapsed time stops accumulating.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.log.Debug("frame loop stopped", "elapsed", l.elapsed, "frames", l.frames)
}

// Running reports whether l is running.
func (l *Loop) Running() bool { return l.running }

// Frames returns the number of ticks that called the
// frame function.
func (l *Loop) Frames() int { return l.frames }

// Elapsed returns the time accumulated while running.
func (l *Loop) Elapsed() time.Duration { return l.elapsed }

func (l *Loop) request(gen uint64) {
	l.sched.RequestFrame(func(now time.Time) { l.tick(gen, now) })
}

func (l *Loop) tick(gen uint64, now time.Time) {
	if !l.running || gen != l.gen {
		return
	}
	if l.fresh {
		l.fresh = false
	} else {
		d := now.Sub(l.last)
		switch {
		case d < 0:
			d = 0
		case d > MaxDelta:
			d = MaxDelta
		}
		l.elapsed += d
	}
	l.last = now
	l.frames++
	l.frame(l.elapsed)
	if l.running && gen == l.gen {
		l.request(gen)
	}
}
