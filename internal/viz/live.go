package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/schweinebauch/iSAC-quadrotor/internal/cost"
	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Live advances a rollout in the foreground and re-evaluates the
// tracking cost after each chunk of control steps, graphing the total
// cost as the trajectory grows.
type Live struct {
	dyn     dynamo.System
	stepper dynamo.Stepper
	ctrl    dynamo.Controller
	tracker *cost.Tracker
	trj     *traj.Trajectory

	x            dynamo.State
	t, dt        float64
	duration     float64
	stepsPerTick int

	history []float64
	width   int
	err     error
	done    bool
}

func NewLive(dyn dynamo.System, stepper dynamo.Stepper, ctrl dynamo.Controller,
	tracker *cost.Tracker, trj *traj.Trajectory, x0 dynamo.State, dt, duration float64) *Live {
	return &Live{
		dyn:          dyn,
		stepper:      stepper,
		ctrl:         ctrl,
		tracker:      tracker,
		trj:          trj,
		x:            x0.Clone(),
		dt:           dt,
		duration:     duration,
		stepsPerTick: 10,
		history:      make([]float64, 0, historyCapacity),
		width:        72,
	}
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Live) Init() tea.Cmd {
	return tick()
}

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.width = msg.Width - 12
		}

	case tickMsg:
		if m.done || m.err != nil {
			return m, nil
		}
		m.advance()
		return m, tick()
	}

	return m, nil
}

func (m *Live) advance() {
	steps := int(m.duration / m.dt)
	for i := 0; i < m.stepsPerTick && m.trj.Len() <= steps; i++ {
		u := m.ctrl.Compute(m.x, m.t)
		m.x = m.stepper.Step(m.dyn, m.x, u, m.t, m.dt)
		m.t = float64(m.trj.Len()) * m.dt
		if err := m.trj.Append(m.t, m.x); err != nil {
			m.err = err
			return
		}
	}

	if err := m.tracker.Update(); err != nil {
		m.err = err
		return
	}
	total, _ := m.tracker.Value()
	if len(m.history) >= historyCapacity {
		m.history = m.history[1:]
	}
	m.history = append(m.history, total)

	if m.trj.Len() > steps {
		m.done = true
	}
}

func (m *Live) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("iSAC tracking cost"))
	b.WriteString("\n")

	if len(m.history) > 0 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Width(m.width),
			asciigraph.Height(12),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	row("t", fmt.Sprintf("%.2f / %.2f s", m.t, m.duration))
	if total, err := m.tracker.Value(); err == nil {
		row("total cost", fmt.Sprintf("%.6f", total))
		row("steps", fmt.Sprintf("%d", m.tracker.Steps()))
	}
	if term, err := m.tracker.TerminalCost(); err == nil {
		row("terminal cost", fmt.Sprintf("%.6f", term))
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.done {
		b.WriteString(helpStyle.Render("rollout finished - q to quit"))
	} else {
		b.WriteString(helpStyle.Render("q to quit"))
	}

	return b.String()
}
