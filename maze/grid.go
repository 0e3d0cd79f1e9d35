/*
Package maze provides the grid model the solver walks on.

A Grid is a fixed-size, row-major array of cell kinds loaded from a CSV or
XLSX source, or generated with Wilson's algorithm. Exactly one cell holds the
Agent; the agent's movement rewrites that marker while End cells stay put.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormat is returned when a grid source is malformed.
	ErrFormat = errors.New("invalid grid format")
	// ErrOutOfBounds is returned for grid access outside its extent.
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// Grid is a maze as a 2D array of cell kinds.
type Grid struct {
	rows  int
	cols  int
	cells []CellKind
}

// Snapshot is a detached copy of a grid, safe to hand to other goroutines.
type Snapshot struct {
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Cells [][]CellKind `json:"cells"`
}

// New returns a rows x cols grid of Empty cells.
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: degenerate dimensions %dx%d", ErrFormat, rows, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: make([]CellKind, rows*cols)}, nil
}

// FromRows builds a grid from source values and validates it.
// The grid must be rectangular, non-empty and hold exactly one Agent cell.
func FromRows(values [][]int) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, fmt.Errorf("%w: degenerate dimensions", ErrFormat)
	}

	g, err := New(len(values), len(values[0]))
	if err != nil {
		return nil, err
	}

	agents := 0
	for row, line := range values {
		if len(line) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrFormat, row, len(line), g.cols)
		}
		for col, v := range line {
			kind, err := ParseCellKind(v)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", row, col, err)
			}
			if kind == Agent {
				agents++
			}
			g.cells[g.index(row, col)] = kind
		}
	}

	switch {
	case agents == 0:
		return nil, fmt.Errorf("%w: no agent cell", ErrFormat)
	case agents > 1:
		return nil, fmt.Errorf("%w: %d agent cells, want exactly one", ErrFormat, agents)
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBound reports whether row, col lies inside the grid.
func (g *Grid) InBound(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

// CellKindAt returns the kind of the cell at row, col.
func (g *Grid) CellKindAt(row, col int) (CellKind, error) {
	if !g.InBound(row, col) {
		return 0, fmt.Errorf("%w: %d,%d in %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	return g.cells[g.index(row, col)], nil
}

// SetCellKind overwrites the cell at row, col.
func (g *Grid) SetCellKind(row, col int, kind CellKind) error {
	if !g.InBound(row, col) {
		return fmt.Errorf("%w: %d,%d in %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown cell kind %d", ErrFormat, int(kind))
	}
	g.cells[g.index(row, col)] = kind
	return nil
}

// AgentPosition returns the state of the Agent cell.
func (g *Grid) AgentPosition() (State, error) {
	for i, kind := range g.cells {
		if kind == Agent {
			return State{Row: i / g.cols, Col: i % g.cols}, nil
		}
	}
	return State{}, fmt.Errorf("%w: no agent cell", ErrFormat)
}

// TraversableStates lists every Empty or Agent cell in row-major order.
func (g *Grid) TraversableStates() []State {
	var states []State
	for i, kind := range g.cells {
		if kind.Traversable() {
			states = append(states, State{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return states
}

// Snapshot copies the grid's current contents.
func (g *Grid) Snapshot() Snapshot {
	cells := make([][]CellKind, g.rows)
	for row := range cells {
		cells[row] = make([]CellKind, g.cols)
		copy(cells[row], g.cells[row*g.cols:(row+1)*g.cols])
	}
	return Snapshot{Rows: g.rows, Cols: g.cols, Cells: cells}
}

// Values returns the grid as source values.
func (g *Grid) Values() [][]int {
	values := make([][]int, g.rows)
	for row := range values {
		values[row] = make([]int, g.cols)
		for col := range values[row] {
			values[row][col] = int(g.cells[g.index(row, col)])
		}
	}
	return values
}

// String provides a textual representation of the grid.
func (g *Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			switch g.cells[g.index(row, col)] {
			case Wall:
				b.WriteByte('#')
			case Start:
				b.WriteByte('S')
			case End:
				b.WriteByte('E')
			case Agent:
				b.WriteByte('A')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
