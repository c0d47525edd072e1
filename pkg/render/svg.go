package render

import (
	"bytes"
	"fmt"
	"html"
)

// Colors shared by the SVG and DOT renderers.
const (
	colorCell      = "#ffffff"
	colorHighlight = "#fde68a"
	colorInactive  = "#e5e7eb"
	colorStroke    = "#374151"
	colorRun       = "#dc2626"
	colorPivot     = "#2563eb"
	colorMuted     = "#6b7280"
)

// SVGOption configures array SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cell      float64
	margin    float64
	showIndex bool
	showTitle bool
}

// WithCellSize sets the width and height of one array cell.
func WithCellSize(px float64) SVGOption { return func(r *svgRenderer) { r.cell = px } }

// WithoutIndices hides the index row under the cells.
func WithoutIndices() SVGOption { return func(r *svgRenderer) { r.showIndex = false } }

// WithoutTitle hides the caption.
func WithoutTitle() SVGOption { return func(r *svgRenderer) { r.showTitle = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{cell: 48, margin: 16, showIndex: true, showTitle: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderArraySVG draws the scene as a row of cells. Highlighted cells are
// filled, inactive cells are grey, runs are outlined in red and the pivot
// is marked with an arrow below its cell.
func RenderArraySVG(s Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	top := r.margin
	if r.showTitle {
		top += 28
	}
	n := max(s.Len(), 1)
	width := 2*r.margin + float64(n)*r.cell
	height := top + r.cell + r.margin
	if r.showIndex {
		height += 18
	}
	if s.Pivot >= 0 {
		height += 28
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <style>text { font-family: ui-monospace, monospace; }</style>` + "\n")

	if r.showTitle {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="16" fill="%s">%s</text>`+"\n",
			r.margin, r.margin+16, colorStroke, html.EscapeString(s.Title()))
	}

	for i, label := range s.Labels {
		renderCell(&buf, &r, s, i, label, top)
	}
	renderRuns(&buf, &r, s, top)
	if s.Pivot >= 0 && s.Pivot < s.Len() {
		renderPivot(&buf, &r, s.Pivot, top)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCell(buf *bytes.Buffer, r *svgRenderer, s Scene, i int, label string, top float64) {
	x := r.margin + float64(i)*r.cell
	fill, class := colorCell, "cell"
	switch {
	case s.Highlighted(i):
		fill, class = colorHighlight, "cell highlight"
	case s.Inactive(i):
		fill, class = colorInactive, "cell inactive"
	}
	fmt.Fprintf(buf, `  <rect id="cell-%d" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		i, class, x, top, r.cell, r.cell, fill, colorStroke)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		x+r.cell/2, top+r.cell/2, r.cell*0.38, html.EscapeString(label))
	if r.showIndex {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" fill="%s">%d</text>`+"\n",
			x+r.cell/2, top+r.cell+14, colorMuted, i)
	}
}

func renderRuns(buf *bytes.Buffer, r *svgRenderer, s Scene, top float64) {
	for _, run := range s.Runs {
		if run.Len() == 0 {
			continue
		}
		x := r.margin + float64(run.Start)*r.cell
		fmt.Fprintf(buf, `  <rect class="run" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="3"/>`+"\n",
			x+1.5, top+1.5, float64(run.Len())*r.cell-3, r.cell-3, colorRun)
	}
}

func renderPivot(buf *bytes.Buffer, r *svgRenderer, pivot int, top float64) {
	cx := r.margin + float64(pivot)*r.cell + r.cell/2
	y := top + r.cell + 4
	if r.showIndex {
		y += 18
	}
	fmt.Fprintf(buf, `  <path class="pivot" d="M %.1f %.1f L %.1f %.1f L %.1f %.1f Z" fill="%s"/>`+"\n",
		cx, y, cx-7, y+12, cx+7, y+12, colorPivot)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" fill="%s">pivot</text>`+"\n",
		cx, y+24, colorPivot)
}
