package maze

import (
	"fmt"
	"math/rand"
)

const maxMazeDimension = 50

// room is a cell of the carved maze before it is rendered into a Grid.
type room struct {
	walls [NumActions]bool // walls[a] is the wall crossed when moving by a.
}

// carving is a rectangular maze of rooms with walls on each side.
type carving struct {
	width  int
	height int
	rooms  [][]room
	rng    *rand.Rand
}

// step is a movement from one room to an adjacent one.
type step struct {
	from   State
	to     State
	action Action
}

var opposite = [NumActions]Action{Up: Down, Down: Up, Right: Left, Left: Right}

// openings reports whether the wall crossed by moving from a room by a is
// open. It is only asked about Right and Down of rooms inside the maze.
type openings interface {
	isOpen(from State, a Action) bool
}

// Generate carves a width x height maze with Wilson's algorithm and renders it
// into a (2*height+1) x (2*width+1) grid. The Start opening is on the left
// border next to the top-left room, where the Agent is placed, and the End
// opening is on the right border next to the bottom-right room.
func Generate(width, height int, rng *rand.Rand) (*Grid, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, fmt.Errorf("%w: invalid maze dimensions %dx%d", ErrFormat, width, height)
	}

	c := &carving{width: width, height: height, rng: rng}
	c.rooms = make([][]room, height)
	for i := range c.rooms {
		c.rooms[i] = make([]room, width)
		for j := range c.rooms[i] {
			c.rooms[i][j] = room{walls: [NumActions]bool{true, true, true, true}}
		}
	}
	c.carve()
	return render(width, height, c)
}

// randomPosition picks a random room.
func (c *carving) randomPosition() State {
	return State{Row: c.rng.Intn(c.height), Col: c.rng.Intn(c.width)}
}

// randomUnvisitedPosition picks a random room that has not been visited.
func (c *carving) randomUnvisitedPosition(visited map[State]struct{}) State {
	for {
		pos := c.randomPosition()
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighbors lists the steps that stay inside the maze.
func (c *carving) neighbors(pos State) []step {
	var result []step
	for _, a := range Actions {
		to := pos.Move(a)
		if to.Row >= 0 && to.Row < c.height && to.Col >= 0 && to.Col < c.width {
			result = append(result, step{from: pos, to: to, action: a})
		}
	}
	return result
}

// openWall removes the wall between two adjacent rooms.
func (c *carving) openWall(s step) {
	c.rooms[s.from.Row][s.from.Col].walls[s.action] = false
	c.rooms[s.to.Row][s.to.Col].walls[opposite[s.action]] = false
}

// randomWalk walks from an unvisited room until it hits the visited tree.
// Loops are erased by keeping only the last exit taken from each room.
func (c *carving) randomWalk(visited map[State]struct{}) (State, map[State]step) {
	start := c.randomUnvisitedPosition(visited)
	exits := make(map[State]step)
	pos := start

	for {
		neighbors := c.neighbors(pos)
		next := neighbors[c.rng.Intn(len(neighbors))]
		exits[pos] = next
		if _, included := visited[next.to]; included {
			break
		}
		pos = next.to
	}
	return start, exits
}

// carve runs Wilson's algorithm over all rooms.
func (c *carving) carve() {
	visited := map[State]struct{}{c.randomPosition(): {}}

	for len(visited) < c.width*c.height {
		start, exits := c.randomWalk(visited)
		// Follow the loop-erased path from the walk's start.
		for pos := start; ; {
			if _, included := visited[pos]; included {
				break
			}
			s := exits[pos]
			c.openWall(s)
			visited[pos] = struct{}{}
			pos = s.to
		}
	}
}

func (c *carving) isOpen(from State, a Action) bool {
	return !c.rooms[from.Row][from.Col].walls[a]
}

// render draws width x height rooms as grid cells with one wall cell between
// rooms, then places the Start and End openings and the Agent.
func render(width, height int, rooms openings) (*Grid, error) {
	g, err := New(2*height+1, 2*width+1)
	if err != nil {
		return nil, err
	}
	for i := range g.cells {
		g.cells[i] = Wall
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			gr, gc := 2*row+1, 2*col+1
			pos := State{Row: row, Col: col}
			g.cells[g.index(gr, gc)] = Empty
			if col+1 < width && rooms.isOpen(pos, Right) {
				g.cells[g.index(gr, gc+1)] = Empty
			}
			if row+1 < height && rooms.isOpen(pos, Down) {
				g.cells[g.index(gr+1, gc)] = Empty
			}
		}
	}

	g.cells[g.index(1, 0)] = Start
	g.cells[g.index(1, 1)] = Agent
	g.cells[g.index(2*height-1, 2*width)] = End
	return g, nil
}
