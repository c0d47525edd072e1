package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stepwise/pkg/algo/heap"
)

// TreeDOT renders the scene as a binary tree in Graphviz DOT format, with
// node i's children at 2i+1 and 2i+2. Highlighted nodes are filled, the
// pivot is outlined in blue, and nodes outside the active heap region are
// dashed and grey.
func TreeDOT(s Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph tree {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", s.Title())
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=%q, fontsize=18, width=0.6, fixedsize=true];\n", colorCell)
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("\n")

	for i, label := range s.Labels {
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(nodeAttrs(s, i, label), ", "))
	}

	buf.WriteString("\n")
	for i := range s.Labels {
		for _, c := range []int{heap.Left(i), heap.Right(i)} {
			if c >= s.Len() {
				continue
			}
			style := ""
			if s.Inactive(c) {
				style = " [style=dashed]"
			}
			fmt.Fprintf(&buf, "  n%d -- n%d%s;\n", i, c, style)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(s Scene, i int, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("xlabel=\"%d\"", i)}
	switch {
	case s.Highlighted(i):
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorHighlight), "penwidth=2")
	case s.Inactive(i):
		attrs = append(attrs, "style=\"filled,dashed\"", fmt.Sprintf("fillcolor=%q", colorInactive))
	}
	if i == s.Pivot {
		attrs = append(attrs, fmt.Sprintf("color=%q", colorPivot), "penwidth=3")
	}
	return attrs
}

// ArrayDOT renders the scene as a single row table in Graphviz DOT format.
// Cells of alternating runs are tinted so run boundaries stay visible.
func ArrayDOT(s Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph array {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", s.Title())
	buf.WriteString("  node [shape=plaintext, fontsize=18];\n\n")

	buf.WriteString("  array [label=<<TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"0\" CELLPADDING=\"8\">\n")
	buf.WriteString("    <TR>")
	for i, label := range s.Labels {
		fmt.Fprintf(&buf, "<TD BGCOLOR=\"%s\">%s</TD>", cellColor(s, i), html.EscapeString(label))
	}
	buf.WriteString("</TR>\n    <TR>")
	for i := range s.Labels {
		mark := strconv.Itoa(i)
		if i == s.Pivot {
			mark += " ^"
		}
		fmt.Fprintf(&buf, "<TD BORDER=\"0\"><FONT POINT-SIZE=\"10\">%s</FONT></TD>", mark)
	}
	buf.WriteString("</TR>\n  </TABLE>>];\n")
	buf.WriteString("}\n")
	return buf.String()
}

func cellColor(s Scene, i int) string {
	switch {
	case s.Highlighted(i):
		return colorHighlight
	case s.Inactive(i):
		return colorInactive
	case s.RunOf(i)%2 == 1:
		return "#eef2ff"
	}
	return colorCell
}

// RenderDOT lays out a DOT graph with Graphviz and returns it in the given
// format (graphviz.SVG or graphviz.PNG).
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// pixel-sized one so the output scales like the array SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
