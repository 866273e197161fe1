package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/nullcline"
)

func playbackModel(n int) model {
	res := &dynamo.Result{Success: true}
	for i := 0; i < n; i++ {
		res.Times = append(res.Times, float64(i))
		res.States = append(res.States, dynamo.State{float64(i), -float64(i)})
	}
	opt := Options{Title: "test", XMin: -10, XMax: 10, YMin: -10, YMax: 10, YIndex: 1}
	return NewModel(res, nullcline.Set{}, opt).(model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTickAdvancesAndStopsAtEnd(t *testing.T) {
	m := playbackModel(3)
	for i := 0; i < 10; i++ {
		next, _ := m.Update(tickMsg(time.Now()))
		m = next.(model)
	}
	if m.pos != 2 || !m.done {
		t.Fatalf("pos=%d done=%v, want clamped at last step", m.pos, m.done)
	}
}

func TestPauseAndRestart(t *testing.T) {
	m := playbackModel(10)
	next, _ := m.Update(key(" "))
	m = next.(model)
	if !m.paused {
		t.Fatal("space did not pause")
	}
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(model)
	if m.pos != 0 {
		t.Fatal("paused playback advanced")
	}
	next, _ = m.Update(key("r"))
	m = next.(model)
	if m.pos != 0 || m.done {
		t.Fatal("restart did not reset")
	}
}

func TestSpeedBounds(t *testing.T) {
	m := playbackModel(10)
	next, _ := m.Update(key("-"))
	m = next.(model)
	if m.speed != 1 {
		t.Fatalf("speed dropped below 1: %d", m.speed)
	}
	for i := 0; i < 10; i++ {
		next, _ = m.Update(key("+"))
		m = next.(model)
	}
	if m.speed != 64 {
		t.Fatalf("speed cap: got %d", m.speed)
	}
}

func TestViewShowsStatus(t *testing.T) {
	m := playbackModel(5)
	out := m.View()
	if !strings.Contains(out, "test") || !strings.Contains(out, "step 0/4") {
		t.Fatalf("unexpected view:\n%s", out)
	}
}

func TestRunRejectsEmptyResult(t *testing.T) {
	if err := Run(&dynamo.Result{}, nullcline.Set{}, Options{}); err == nil {
		t.Fatal("empty result accepted")
	}
}
