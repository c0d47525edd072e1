// Package step provides the step-through controller shared by every
// stepwise demo.
//
// # Overview
//
// A [Controller] animates one algorithm one operation at a time. It owns a
// private copy of the input, a cursor describing where the algorithm is,
// and a [History] of earlier (snapshot, cursor) pairs:
//
//	Reset  any  -> READY   copy of the original input, initial cursor, empty history
//	Next   READY -> READY|DONE   push current state, apply one unit of work
//	Prev   any  -> READY   pop the most recent state (no-op when history is empty)
//
// What counts as "one unit of work" is supplied by a [Strategy]: an initial
// cursor, a step function, a termination test and an optional focus
// function used to annotate frames. The controller itself knows nothing
// about heaps or partitions.
//
// # Snapshots
//
// Snapshots are copied on every push and every [Frame] carries its own copy
// of the values, so callers may keep or modify frames freely. Cursors that
// contain slices must provide [Strategy.Copy].
//
// # Degenerate input
//
// Strategies are expected to report done immediately for inputs with fewer
// than two elements; the controller then never records a step.
package step
