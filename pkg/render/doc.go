// Package render turns step frames into pictures and text.
//
// A [Scene] is built from any frame with [SceneOf] and rendered by [Render]
// in one of two views:
//
//   - array: a row of cells. Highlighted cells are filled, mergesort runs
//     are outlined, and the pivot is marked with an arrow.
//   - tree: the values as a binary heap, with node i's children at 2i+1
//     and 2i+2. Nodes outside the active heap region are dashed.
//
// Formats:
//
//   - svg: array SVG is written directly; tree SVG is laid out by Graphviz
//   - png: tree PNG comes from Graphviz, array PNG from rsvg-convert
//   - pdf: converted from SVG with rsvg-convert (requires librsvg)
//   - dot: the Graphviz source for either view
//   - txt: styled terminal text (lipgloss)
//   - json: the scene itself
//
// [Renderer] adds a cache in front of Render, keyed by the scene content:
//
//	r := render.NewRenderer(fileCache)
//	svg, cached, err := r.Render(ctx, render.SceneOf(frame), render.Options{View: render.ViewTree})
package render
