package dp

import "fmt"

// Op is a single edit operation.
type Op int

const (
	// Match keeps a symbol that is equal in source and target.
	Match Op = iota
	// Substitute replaces a source symbol by a different target symbol.
	Substitute
	// Insert adds a target symbol.
	Insert
	// Delete removes a source symbol.
	Delete
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case Match:
		return "match"
	case Substitute:
		return "substitute"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// MarshalText encodes the operation by name.
func (o Op) MarshalText() ([]byte, error) {
	if o < Match || o > Delete {
		return nil, fmt.Errorf("unknown edit op %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (o *Op) UnmarshalText(text []byte) error {
	for op := Match; op <= Delete; op++ {
		if op.String() == string(text) {
			*o = op
			return nil
		}
	}
	return fmt.Errorf("unknown edit op %q", text)
}

// Edit is one step of an edit script. I and J are the source and target
// positions the operation consumes; I is -1 for Insert and J is -1 for
// Delete.
type Edit[T comparable] struct {
	Op   Op  `json:"op"`
	I    int `json:"i"`
	J    int `json:"j"`
	From T   `json:"from"`
	To   T   `json:"to"`
}

// TextEdit is an Edit over characters with the symbols as strings. From is
// empty for Insert and To is empty for Delete.
type TextEdit struct {
	Op   Op     `json:"op"`
	I    int    `json:"i"`
	J    int    `json:"j"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// TextScript converts a character edit script for JSON output.
func TextScript(edits []Edit[rune]) []TextEdit {
	out := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		te := TextEdit{Op: e.Op, I: e.I, J: e.J}
		if e.Op != Insert {
			te.From = string(e.From)
		}
		if e.Op != Delete {
			te.To = string(e.To)
		}
		out = append(out, te)
	}
	return out
}

// parent choices, in tie-break order.
const (
	fromDiagonal = iota
	fromLeft
	fromUp
	fromNone = -1
)

// Table is a filled edit-distance table for a source and target sequence.
type Table[T comparable] struct {
	x, y   []T
	cost   [][]int
	parent [][]int
}

// NewEditTable fills the cost and parent tables for transforming x into y.
func NewEditTable[T comparable](x, y []T) *Table[T] {
	n, m := len(x), len(y)
	cost := make([][]int, n+1)
	parent := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]int, m+1)
		parent[i] = make([]int, m+1)
	}

	parent[0][0] = fromNone
	for i := 1; i <= n; i++ {
		cost[i][0] = cost[i-1][0] + 1
		parent[i][0] = fromUp
	}
	for j := 1; j <= m; j++ {
		cost[0][j] = cost[0][j-1] + 1
		parent[0][j] = fromLeft
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			choices := [3]int{
				fromDiagonal: cost[i-1][j-1] + mismatch(x[i-1], y[j-1]),
				fromLeft:     cost[i][j-1] + 1,
				fromUp:       cost[i-1][j] + 1,
			}
			best := fromDiagonal
			for c := fromLeft; c <= fromUp; c++ {
				if choices[c] < choices[best] {
					best = c
				}
			}
			cost[i][j] = choices[best]
			parent[i][j] = best
		}
	}
	return &Table[T]{x: x, y: y, cost: cost, parent: parent}
}

func mismatch[T comparable](a, b T) int {
	if a == b {
		return 0
	}
	return 1
}

// Cost returns the edit distance, the bottom-right cell of the table.
func (t *Table[T]) Cost() int {
	return t.cost[len(t.x)][len(t.y)]
}

// At returns the cost of transforming x[:i] into y[:j].
func (t *Table[T]) At(i, j int) int {
	return t.cost[i][j]
}

// Rows returns a copy of the cost table.
func (t *Table[T]) Rows() [][]int {
	out := make([][]int, len(t.cost))
	for i, row := range t.cost {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Path reconstructs an optimal edit script by following parent pointers
// from the bottom-right cell back to the origin. Edits are returned in
// source order.
func (t *Table[T]) Path() []Edit[T] {
	var edits []Edit[T]
	i, j := len(t.x), len(t.y)
	for i > 0 || j > 0 {
		var zero T
		switch t.parent[i][j] {
		case fromDiagonal:
			op := Match
			if t.x[i-1] != t.y[j-1] {
				op = Substitute
			}
			edits = append(edits, Edit[T]{Op: op, I: i - 1, J: j - 1, From: t.x[i-1], To: t.y[j-1]})
			i, j = i-1, j-1
		case fromLeft:
			edits = append(edits, Edit[T]{Op: Insert, I: -1, J: j - 1, From: zero, To: t.y[j-1]})
			j--
		case fromUp:
			edits = append(edits, Edit[T]{Op: Delete, I: i - 1, J: -1, From: t.x[i-1], To: zero})
			i--
		default:
			i, j = 0, 0
		}
	}
	for l, r := 0, len(edits)-1; l < r; l, r = l+1, r-1 {
		edits[l], edits[r] = edits[r], edits[l]
	}
	return edits
}

// ScriptCost returns the number of non-Match edits in a script.
func ScriptCost[T comparable](edits []Edit[T]) int {
	n := 0
	for _, e := range edits {
		if e.Op != Match {
			n++
		}
	}
	return n
}

// Apply replays an edit script and returns the resulting target sequence.
func Apply[T comparable](edits []Edit[T]) []T {
	out := make([]T, 0, len(edits))
	for _, e := range edits {
		if e.Op != Delete {
			out = append(out, e.To)
		}
	}
	return out
}

// EditDistance returns the unit-cost edit distance between two strings,
// compared rune by rune.
func EditDistance(x, y string) int {
	return NewEditTable([]rune(x), []rune(y)).Cost()
}

// EditDistanceRecursive computes the edit distance top down without
// memoization. It takes exponential time and is meant for short inputs.
func EditDistanceRecursive[T comparable](x, y []T) int {
	return editRecursive(x, len(x)-1, y, len(y)-1, nil)
}

// EditDistanceMemo computes the edit distance top down, caching every
// (i, j) subproblem.
func EditDistanceMemo[T comparable](x, y []T) int {
	memo := make(map[[2]int]int)
	return editRecursive(x, len(x)-1, y, len(y)-1, memo)
}

func editRecursive[T comparable](x []T, i int, y []T, j int, memo map[[2]int]int) int {
	if i < 0 {
		return j + 1
	}
	if j < 0 {
		return i + 1
	}
	key := [2]int{i, j}
	if memo != nil {
		if v, ok := memo[key]; ok {
			return v
		}
	}
	v := min(
		editRecursive(x, i-1, y, j-1, memo)+mismatch(x[i], y[j]),
		editRecursive(x, i, y, j-1, memo)+1,
		editRecursive(x, i-1, y, j, memo)+1,
	)
	if memo != nil {
		memo[key] = v
	}
	return v
}
