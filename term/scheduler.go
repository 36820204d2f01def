// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package term

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// drainMsg asks the model to run posted functions.
type drainMsg struct{}

// frameMsg is a display refresh.
type frameMsg time.Time

// Scheduler is a loop.Scheduler whose functions run
// inside the bubbletea program's Update.
type Scheduler struct {
	mu     sync.Mutex
	prog   *tea.Program
	posts  []func()
	frames []func(time.Time)
}

// attach makes p the program that is woken up by
// Post.
func (s *Scheduler) attach(p *tea.Program) {
	s.mu.Lock()
	s.prog = p
	s.mu.Unlock()
}

// Post implements loop.Scheduler.
func (s *Scheduler) Post(f func()) {
	s.mu.Lock()
	s.posts = append(s.posts, f)
	p := s.prog
	s.mu.Unlock()
	if p != nil {
		// Send blocks until Update receives the
		// message, and Post may be called from Update.
		go p.Send(drainMsg{})
	}
}

// RequestFrame implements loop.Scheduler.
func (s *Scheduler) RequestFrame(f func(time.Time)) {
	s.mu.Lock()
	s.frames = append(s.frames, f)
	s.mu.Unlock()
}

// Drain runs posted functions until none is left.
func (s *Scheduler) Drain() (n int) {
	for {
		s.mu.Lock()
		ps := s.posts
		s.posts = nil
		s.mu.Unlock()
		if len(ps) == 0 {
			return
		}
		for _, f := range ps {
			f()
		}
		n += len(ps)
	}
}

// Frame serves the frame requests made so far.
func (s *Scheduler) Frame(now time.Time) int {
	s.mu.Lock()
	fs := s.frames
	s.frames = nil
	s.mu.Unlock()
	for _, f := range fs {
		f(now)
	}
	return len(fs)
}

// Pending returns the number of frame requests.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
