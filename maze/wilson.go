package maze

import (
	"fmt"

	wilsonmaze "github.com/beka-birhanu/wilson-maze"
)

// MaxUnseededDimension is the largest side, in rooms, GenerateUnseeded accepts.
const MaxUnseededDimension = 20

// GenerateUnseeded carves a width x height maze with the wilson-maze library
// and renders it like Generate. The library draws from the global random
// source, so its layouts cannot be replayed from a seed.
func GenerateUnseeded(width, height int) (*Grid, error) {
	if min(width, height) <= 0 || max(width, height) > MaxUnseededDimension {
		return nil, fmt.Errorf("%w: invalid maze dimensions %dx%d", ErrFormat, width, height)
	}

	m, err := wilsonmaze.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	carved, ok := m.(*wilsonmaze.WillsonMaze)
	if !ok {
		return nil, fmt.Errorf("unexpected maze type %T", m)
	}
	return render(width, height, wilsonRooms{carved})
}

// wilsonRooms reads the openings of a maze carved by the library.
type wilsonRooms struct {
	maze *wilsonmaze.WillsonMaze
}

func (w wilsonRooms) isOpen(from State, a Action) bool {
	move := &wilsonmaze.Move{}
	move.SetFrom(cellPosition(from))
	move.SetTo(cellPosition(from.Move(a)))
	return w.maze.IsValidMove(move)
}

func cellPosition(s State) *wilsonmaze.CellPosition {
	pos := &wilsonmaze.CellPosition{}
	pos.SetRow(int32(s.Row))
	pos.SetCol(int32(s.Col))
	return pos
}
