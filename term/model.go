// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package term hosts the backdrop in a terminal, behind
// a small wizard that drives it the way the real
// wizard does.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gviegas/backdrop/camera"
	"github.com/gviegas/backdrop/engine"
	"github.com/gviegas/backdrop/facade"
)

// installedMsg reports that the facade cell settled.
type installedMsg struct{}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6b9d"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9d4edd"))
	pausedStyle = statusStyle.Faint(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

var stepTitles = [...]string{
	camera.Intro:    "Welcome",
	camera.Genre:    "Pick a genre",
	camera.Snacks:   "Snacks",
	camera.Dates:    "Pick a date",
	camera.Time:     "Pick a time",
	camera.Accepted: "See you there",
}

// Model is the bubbletea model of the terminal host.
type Model struct {
	cfg   engine.Config
	log   *slog.Logger
	sched *Scheduler
	surf  *Surface
	cell  *facade.Cell
	ctx   context.Context

	interval  time.Duration
	ticking   bool
	installed bool

	step   camera.Step
	paused bool
}

// New creates a terminal host for cfg.
// The surface is registered under cfg.Surface, sized
// cfg.Width×cfg.Height pixels.
func New(ctx context.Context, cfg engine.Config) (*Model, error) {
	if err := cfg.Resolve(engine.Flags{}); err != nil {
		return nil, err
	}
	surf, err := NewSurface(cfg.Surface, cfg.Width, cfg.Height/2)
	if err != nil {
		return nil, err
	}
	return &Model{
		cfg:      cfg,
		log:      cfg.Log,
		sched:    new(Scheduler),
		surf:     surf,
		cell:     new(facade.Cell),
		ctx:      ctx,
		interval: time.Second / time.Duration(cfg.FPS),
		step:     camera.Intro,
	}, nil
}

// Scheduler returns the host's scheduler.
func (m *Model) Scheduler() *Scheduler { return m.sched }

// Backdrop returns the facade the wizard talks to.
func (m *Model) Backdrop() facade.Backdrop { return m.cell }

// Step returns the wizard's current step.
func (m *Model) Step() camera.Step { return m.step }

// Close releases the host's surface and engine.
func (m *Model) Close() {
	if l, ok := m.cell.Load().(facade.Live); ok {
		l.Engine().Close()
	}
	m.surf.Close()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	done := facade.Install(m.ctx, m.cell, func(ctx context.Context) (*engine.Engine, error) {
		return engine.Initialize(ctx, m.cfg, m.sched)
	}, m.log)
	return func() tea.Msg {
		<-done
		return installedMsg{}
	}
}

func (m *Model) tick() tea.Cmd {
	if m.ticking || m.sched.Pending() == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) engine() *engine.Engine {
	if l, ok := m.cell.Load().(facade.Live); ok {
		return l.Engine()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case installedMsg:
		m.installed = true
		m.sched.Drain()
		// The wizard announces its first step on load.
		m.cell.TransitionToStep(m.step)
		if m.paused {
			m.cell.ToggleMotion(true)
		}
	case drainMsg:
		m.sched.Drain()
	case frameMsg:
		m.ticking = false
		m.sched.Drain()
		m.sched.Frame(time.Time(msg))
	case tea.WindowSizeMsg:
		m.surf.Resize(msg.Width, msg.Height-1)
		if e := m.engine(); e != nil {
			e.Resize(m.surf.Width(), m.surf.Height())
		}
	case tea.MouseMsg:
		if e := m.engine(); e != nil {
			e.Pointer(float32(msg.X), float32(msg.Y*2))
		}
	case tea.KeyMsg:
		if cmd := m.key(msg); cmd != nil {
			return m, cmd
		}
	}
	return m, m.tick()
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	switch k := msg.String(); k {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "1", "2", "3", "4", "5":
		s, _ := camera.ParseStep(k)
		m.goTo(s)
	case "right", "enter", "l":
		if m.step >= camera.Intro && m.step < camera.Time {
			m.goTo(m.step + 1)
		}
	case "left", "h":
		if m.step > camera.Intro && m.step <= camera.Time {
			m.goTo(m.step - 1)
		}
	case "a":
		if m.step == camera.Time {
			m.goTo(camera.Accepted)
		}
	case " ":
		m.paused = !m.paused
		m.cell.ToggleMotion(m.paused)
	}
	return nil
}

func (m *Model) goTo(s camera.Step) {
	m.step = s
	m.cell.TransitionToStep(s)
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.surf.View())
	title := titleStyle.Render(stepTitles[m.step])
	var status string
	switch {
	case !m.installed:
		status = "starting"
	case !m.cell.Live():
		status = "static background"
	case m.paused:
		status = "paused"
	default:
		status = "animating"
	}
	st := statusStyle
	if m.paused {
		st = pausedStyle
	}
	n := fmt.Sprintf("%d/5", min(int(m.step), 5))
	if m.step == camera.Accepted {
		n = "done"
	}
	fmt.Fprintf(&b, "%s %s %s",
		title,
		st.Render("["+n+"] "+status),
		helpStyle.Render("←/→ step · a accept · space pause · q quit"))
	return b.String()
}

// Run runs the terminal host until the user quits or
// ctx is done.
func Run(ctx context.Context, cfg engine.Config) error {
	m, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion())
	m.sched.attach(p)
	_, err = p.Run()
	return err
}
