package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stepwise/pkg/render"
	"github.com/matzehuels/stepwise/pkg/step"
)

// Play styles
var (
	playHelpStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	playStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	playDoneStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	playAutoStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
)

// =============================================================================
// Key bindings
// =============================================================================

type playKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Reset key.Binding
	End   key.Binding
	Auto  key.Binding
	View  key.Binding
	Quit  key.Binding
}

var playKeys = playKeyMap{
	Next: key.NewBinding(
		key.WithKeys("right", "l", "n", " "),
		key.WithHelp("→/n", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "p", "u"),
		key.WithHelp("←/p", "prev"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "run to end"),
	),
	Auto: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "autoplay"),
	),
	View: key.NewBinding(
		key.WithKeys("v", "tab"),
		key.WithHelp("v", "array/tree"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k playKeyMap) help() string {
	bindings := []key.Binding{k.Next, k.Prev, k.Reset, k.End, k.Auto, k.View, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// PlayModel - Interactive stepping
// =============================================================================

// autoTickMsg advances an autoplaying model.
type autoTickMsg struct{}

// PlayModel is the bubbletea model for stepping through a demo.
type PlayModel struct {
	Stepper  step.Stepper[int]
	Frame    step.Frame[int]
	Layout   render.View
	Auto     bool
	Interval time.Duration
	MaxSteps int
}

// NewPlayModel creates a play model positioned at the stepper's current frame.
func NewPlayModel(s step.Stepper[int], view render.View, interval time.Duration) PlayModel {
	return PlayModel{
		Stepper:  s,
		Frame:    s.Frame(),
		Layout:   view,
		Interval: interval,
		MaxSteps: defaultMaxSteps,
	}
}

func (m PlayModel) Init() tea.Cmd {
	return nil
}

func (m PlayModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(time.Time) tea.Msg { return autoTickMsg{} })
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case autoTickMsg:
		if !m.Auto {
			return m, nil
		}
		if m.Stepper.Done() {
			m.Auto = false
			return m, nil
		}
		m.next()
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, playKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, playKeys.Next):
			m.next()
		case key.Matches(msg, playKeys.Prev):
			m.Frame = m.Stepper.Prev()
		case key.Matches(msg, playKeys.Reset):
			m.Frame = m.Stepper.Reset()
			m.Auto = false
		case key.Matches(msg, playKeys.End):
			m.Frame, _, _ = step.RunToEnd(m.Stepper, m.MaxSteps)
		case key.Matches(msg, playKeys.Auto):
			m.Auto = !m.Auto && !m.Stepper.Done()
			if m.Auto {
				return m, m.tick()
			}
		case key.Matches(msg, playKeys.View):
			if m.Layout == render.ViewTree {
				m.Layout = render.ViewArray
			} else {
				m.Layout = render.ViewTree
			}
		}
	}
	return m, nil
}

func (m *PlayModel) next() {
	m.Frame = m.Stepper.Next()
}

func (m PlayModel) View() string {
	var b strings.Builder

	b.WriteString(render.Text(render.SceneOf(m.Frame), m.Layout))
	b.WriteString("\n")

	status := playStatusStyle.Render(fmt.Sprintf("depth %d", m.Frame.Depth))
	switch {
	case m.Frame.Done:
		status += "  " + playDoneStyle.Render("done")
	case m.Auto:
		status += "  " + playAutoStyle.Render("auto")
	}
	b.WriteString(status)
	b.WriteString("\n\n")
	b.WriteString(playHelpStyle.Render(playKeys.help()))
	b.WriteString("\n")
	return b.String()
}
