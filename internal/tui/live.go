// Package tui provides an animated terminal playback of a computed
// trajectory over its phase portrait.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/nullcline"
	"github.com/san-kum/phaseplot/internal/viz"
)

var (
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Options configure the live viewer.
type Options struct {
	Title                  string
	XMin, XMax, YMin, YMax float64
	XIndex, YIndex         int
	Width, Height          int
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	res *dynamo.Result
	ncl nullcline.Set
	opt Options

	pos    int
	speed  int
	paused bool
	done   bool
}

// NewModel builds a playback model over a finished integration result and a
// precomputed nullcline set.
func NewModel(res *dynamo.Result, ncl nullcline.Set, opt Options) tea.Model {
	if opt.Width <= 0 {
		opt.Width = 70
	}
	if opt.Height <= 0 {
		opt.Height = 22
	}
	return model{res: res, ncl: ncl, opt: opt, speed: 1}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "r":
			m.pos = 0
			m.done = false
		case "+", "=":
			if m.speed < 64 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
		return m, nil
	case tickMsg:
		if !m.paused && !m.done {
			m.pos += m.speed
			if m.pos >= len(m.res.States) {
				m.pos = len(m.res.States) - 1
				m.done = true
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	p := viz.NewPhasePlot(m.opt.Width, m.opt.Height,
		m.opt.XMin, m.opt.XMax, m.opt.YMin, m.opt.YMax,
		m.opt.XIndex, m.opt.YIndex)
	p.AddNullclines(m.ncl)

	prefix := &dynamo.Result{
		Times:  m.res.Times[:m.pos+1],
		States: m.res.States[:m.pos+1],
	}
	p.AddTrajectory(prefix)

	header := white.Render(m.opt.Title)
	t := 0.0
	if m.pos < len(m.res.Times) {
		t = m.res.Times[m.pos]
	}
	status := dim.Render(fmt.Sprintf("t=%.3f  step %d/%d  speed %dx",
		t, m.pos, len(m.res.States)-1, m.speed))
	if m.paused {
		status += "  " + yellow.Render("paused")
	} else if m.done {
		status += "  " + green.Render("done")
	}
	help := dim.Render("space pause  r restart  +/- speed  q quit")

	return header + "\n" + p.Render() + status + "\n" + help + "\n"
}

// Run starts the playback program and blocks until the user quits.
func Run(res *dynamo.Result, ncl nullcline.Set, opt Options) error {
	if res == nil || len(res.States) == 0 {
		return fmt.Errorf("tui: nothing to play back")
	}
	prog := tea.NewProgram(NewModel(res, ncl, opt))
	_, err := prog.Run()
	return err
}
