package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/render"
)

func newPlay(t *testing.T) PlayModel {
	t.Helper()
	s, err := demo.New(demo.NameBuildHeap, []int{4, 10, 3, 5, 1})
	if err != nil {
		t.Fatal(err)
	}
	return NewPlayModel(s, render.ViewArray, time.Millisecond)
}

func press(t *testing.T, m PlayModel, keys ...tea.KeyMsg) (PlayModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(PlayModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestPlayModelNextPrev(t *testing.T) {
	m := newPlay(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Frame.Depth != 1 {
		t.Fatalf("depth after next = %d, want 1", m.Frame.Depth)
	}
	m, _ = press(t, m, runes("n"))
	if !m.Frame.Done {
		t.Error("build-heap should be done after two steps")
	}
	m, _ = press(t, m, runes("p"))
	if m.Frame.Depth != 1 {
		t.Errorf("depth after prev = %d, want 1", m.Frame.Depth)
	}
	m, _ = press(t, m, runes("r"))
	if m.Frame.Depth != 0 || m.Frame.Values[0] != 4 {
		t.Errorf("reset frame = %+v", m.Frame)
	}
}

func TestPlayModelRunToEnd(t *testing.T) {
	m, _ := press(t, newPlay(t), runes("G"))
	if !m.Frame.Done {
		t.Error("G should run to the end")
	}
	if !strings.Contains(m.View(), "done") {
		t.Error("view should show done")
	}
}

func TestPlayModelToggleView(t *testing.T) {
	m, _ := press(t, newPlay(t), runes("v"))
	if m.Layout != render.ViewTree {
		t.Errorf("layout = %s, want tree", m.Layout)
	}
	m, _ = press(t, m, runes("v"))
	if m.Layout != render.ViewArray {
		t.Errorf("layout = %s, want array", m.Layout)
	}
}

func TestPlayModelAutoplay(t *testing.T) {
	m, cmd := press(t, newPlay(t), runes("a"))
	if !m.Auto || cmd == nil {
		t.Fatal("a should start autoplay with a tick")
	}
	for range 5 {
		next, _ := m.Update(autoTickMsg{})
		m = next.(PlayModel)
	}
	if !m.Frame.Done || m.Auto {
		t.Errorf("autoplay should stop when done: done=%v auto=%v", m.Frame.Done, m.Auto)
	}
}

func TestPlayModelQuit(t *testing.T) {
	_, cmd := press(t, newPlay(t), runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPlayCommandRejectsInterval(t *testing.T) {
	for _, interval := range []string{"0s", "-1s"} {
		t.Run(interval, func(t *testing.T) {
			_, err := execute(t, "play", demo.NameBuildHeap, "--interval", interval)
			if err == nil {
				t.Fatal("play should reject a non-positive interval")
			}
			if !strings.Contains(err.Error(), "--interval must be positive") {
				t.Errorf("error = %v", err)
			}
		})
	}
}
