package maze

import "fmt"

// CellKind is the content of a single grid cell. The numeric values are the
// ones used by grid source files.
type CellKind int

const (
	Empty CellKind = 0 // Empty is a traversable cell.
	Wall  CellKind = 1 // Wall blocks movement.
	Start CellKind = 3 // Start marks the entry border. Informational only.
	End   CellKind = 4 // End marks the exit border.
	Agent CellKind = 5 // Agent marks the cell the agent currently occupies.
)

// ParseCellKind converts a source value into a CellKind.
func ParseCellKind(v int) (CellKind, error) {
	k := CellKind(v)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: unknown cell value %d", ErrFormat, v)
	}
	return k, nil
}

// Valid reports whether k is one of the known cell kinds.
func (k CellKind) Valid() bool {
	switch k {
	case Empty, Wall, Start, End, Agent:
		return true
	default:
		return false
	}
}

// Traversable reports whether a cell of this kind has a state.
func (k CellKind) Traversable() bool {
	return k == Empty || k == Agent
}

func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case End:
		return "end"
	case Agent:
		return "agent"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}
