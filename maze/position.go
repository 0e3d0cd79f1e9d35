package maze

import (
	"fmt"
	"strconv"
	"strings"
)

// State identifies one traversable cell of the grid.
type State struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// ParseState parses the "<row> <col>" text form produced by State.String.
func ParseState(key string) (State, error) {
	fields := strings.Fields(key)
	if len(fields) != 2 {
		return State{}, fmt.Errorf("malformed state key %q", key)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return State{}, fmt.Errorf("malformed state row in %q: %w", key, err)
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return State{}, fmt.Errorf("malformed state column in %q: %w", key, err)
	}
	return State{Row: row, Col: col}, nil
}

// String returns the persisted form of the state, "<row> <col>".
func (s State) String() string {
	return strconv.Itoa(s.Row) + " " + strconv.Itoa(s.Col)
}

// Less orders states row-major.
func (s State) Less(o State) bool {
	if s.Row != o.Row {
		return s.Row < o.Row
	}
	return s.Col < o.Col
}

// Compare returns -1, 0 or +1 following Less. Suitable for slices.SortFunc.
func (s State) Compare(o State) int {
	switch {
	case s.Less(o):
		return -1
	case o.Less(s):
		return 1
	default:
		return 0
	}
}

// Move returns the state reached by applying the action's delta.
func (s State) Move(a Action) State {
	d := a.Delta()
	return State{Row: s.Row + d.Row, Col: s.Col + d.Col}
}

// Action is one of the four cardinal moves. The numeric order is the order of
// the per-state value arrays: up, down, right, left.
type Action int

const (
	Up Action = iota
	Down
	Right
	Left
)

// NumActions is the number of actions available to the agent.
const NumActions = 4

// Actions lists every action in value-array order.
var Actions = [NumActions]Action{Up, Down, Right, Left}

var deltas = [NumActions]State{
	Up:    {Row: -1, Col: 0},
	Down:  {Row: 1, Col: 0},
	Right: {Row: 0, Col: 1},
	Left:  {Row: 0, Col: -1},
}

// Delta returns the coordinate change of the action.
func (a Action) Delta() State {
	return deltas[a]
}

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}
