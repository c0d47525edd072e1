package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	textCell      = lipgloss.NewStyle().Padding(0, 1)
	textHighlight = textCell.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	textInactive  = textCell.Foreground(lipgloss.Color("240"))
	textPivot     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	textTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	textRunSep    = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Render("│")
)

// Text renders the scene as terminal text. The array view prints one row
// of cells with run separators and a pivot marker; the tree view prints one
// line per heap level.
func Text(s Scene, view View) string {
	var b strings.Builder
	b.WriteString(textTitle.Render(s.Title()))
	b.WriteString("\n")
	if view == ViewTree {
		b.WriteString(textTree(s))
	} else {
		b.WriteString(textArray(s))
	}
	return b.String()
}

func textCellFor(s Scene, i int, width int) string {
	label := lipgloss.PlaceHorizontal(width, lipgloss.Center, s.Labels[i])
	switch {
	case s.Highlighted(i):
		return textHighlight.Render(label)
	case s.Inactive(i):
		return textInactive.Render(label)
	}
	return textCell.Render(label)
}

func labelWidth(s Scene) int {
	w := 1
	for _, l := range s.Labels {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

func textArray(s Scene) string {
	if s.Len() == 0 {
		return "(empty)\n"
	}
	w := labelWidth(s)
	var row, marks strings.Builder
	for i := range s.Labels {
		if i > 0 && len(s.Runs) > 0 && s.RunOf(i) != s.RunOf(i-1) {
			row.WriteString(textRunSep)
			marks.WriteString(" ")
		}
		row.WriteString(textCellFor(s, i, w))
		mark := " "
		if i == s.Pivot {
			mark = textPivot.Render("^")
		}
		marks.WriteString(lipgloss.PlaceHorizontal(w+2, lipgloss.Center, mark))
	}
	out := row.String() + "\n"
	if s.Pivot >= 0 {
		out += strings.TrimRight(marks.String(), " ") + "\n"
	}
	return out
}

func textTree(s Scene) string {
	if s.Len() == 0 {
		return "(empty)\n"
	}
	w := labelWidth(s) + 2
	levels := 0
	for n := s.Len(); n > 0; n >>= 1 {
		levels++
	}
	total := (1 << (levels - 1)) * w

	var b strings.Builder
	for level, start := 0, 0; start < s.Len(); level, start = level+1, 2*start+1 {
		count := 1 << level
		slot := total / count
		var line strings.Builder
		for i := start; i < min(start+count, s.Len()); i++ {
			line.WriteString(lipgloss.PlaceHorizontal(slot, lipgloss.Center, textCellFor(s, i, w-2)))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}
	return b.String()
}
