// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package camera implements the step-indexed camera
// choreography of the backdrop.
package camera

import (
	"strconv"

	"github.com/chewxy/math32"

	"github.com/gviegas/backdrop/linear"
)

// Step identifies a wizard step.
type Step int

// Steps.
const (
	None Step = iota
	Intro
	Genre
	Snacks
	Dates
	Time
	Accepted
)

func (s Step) String() string {
	switch {
	case s == Accepted:
		return "accepted"
	case s >= Intro && s <= Time:
		return strconv.Itoa(int(s))
	}
	return "none"
}

// ParseStep parses a step identifier: "1" through "5"
// or "accepted".
func ParseStep(s string) (Step, bool) {
	if s == "accepted" {
		return Accepted, true
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < int(Intro) || i > int(Time) {
		return None, false
	}
	return Step(i), true
}

var poses = [...]linear.V3{
	Intro:    {0, 0, 14},
	Genre:    {0, 0, 8},
	Snacks:   {12, 0, 6},
	Dates:    {-12, 1, 6},
	Time:     {0, 8, 6},
	Accepted: {0, 0, 1},
}

// Pose returns the camera position configured for
// step s.
func Pose(s Step) (linear.V3, bool) {
	if s <= None || s > Accepted {
		return linear.V3{}, false
	}
	return poses[s], true
}

// Forward is the distance from the camera to its
// look-at point along -Z.
const Forward = 10

// Parallax is the look-at displacement per unit of
// normalized pointer offset.
const Parallax = 5

// State is the camera's current and desired
// positions.
type State struct {
	Pos    linear.V3
	Target linear.V3
}

// Advance moves Pos a blend fraction of the way
// toward Target. blend is clamped to [0, 1].
func (s *State) Advance(blend float32) {
	blend = math32.Max(0, math32.Min(1, blend))
	var d linear.V3
	d.Sub(&s.Target, &s.Pos)
	d.Scale(blend, &d)
	s.Pos.Add(&s.Pos, &d)
}

// Dist returns the distance from Pos to Target.
func (s *State) Dist() float32 { return s.Pos.Dist(&s.Target) }

// LookAt returns the point the camera looks at,
// given the normalized pointer offset.
// Only X and Y of pointer are used.
func (s *State) LookAt(pointer linear.V3, forward float32) linear.V3 {
	return linear.V3{
		s.Pos[0] + pointer[0]*Parallax,
		s.Pos[1] - pointer[1]*Parallax,
		s.Pos[2] - forward,
	}
}

// Choreographer maps wizard steps to camera targets.
type Choreographer struct {
	State    State
	step     Step
	disabled bool
}

// New creates a choreographer whose camera rests at
// pos.
func New(pos linear.V3) *Choreographer {
	return &Choreographer{State: State{Pos: pos, Target: pos}}
}

// Transition retargets the camera to the pose of
// step s. It returns false, and changes nothing, if
// s is unknown or c is disabled.
func (c *Choreographer) Transition(s Step) bool {
	if c.disabled {
		return false
	}
	p, ok := Pose(s)
	if !ok {
		return false
	}
	c.State.Target = p
	c.step = s
	return true
}

// Step returns the last step applied, or None.
func (c *Choreographer) Step() Step { return c.step }

// Disable makes every subsequent Transition a no-op.
func (c *Choreographer) Disable() { c.disabled = true }

// Disabled reports whether c was disabled.
func (c *Choreographer) Disabled() bool { return c.disabled }
