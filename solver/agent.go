package solver

import (
	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
)

// Agent walks the grid and keeps the run-state of one solving session:
// where it is, where it came from, what it did last and the reward gathered
// since the last value update.
type Agent struct {
	grid    *maze.Grid
	table   *qtable.Table
	rewards Rewards

	position   maze.State
	previous   maze.State
	lastAction maze.Action
	reward     float64
	available  []maze.Action
}

// NewAgent places an agent on the grid's Agent cell.
func NewAgent(grid *maze.Grid, table *qtable.Table, rewards Rewards) (*Agent, error) {
	pos, err := grid.AgentPosition()
	if err != nil {
		return nil, err
	}
	return &Agent{
		grid:     grid,
		table:    table,
		rewards:  rewards,
		position: pos,
		previous: pos,
	}, nil
}

// Position returns the current state.
func (a *Agent) Position() maze.State { return a.position }

// Previous returns the state before the last move.
func (a *Agent) Previous() maze.State { return a.previous }

// LastAction returns the action of the last move.
func (a *Agent) LastAction() maze.Action { return a.lastAction }

// Reward returns the reward accumulated since the last update.
func (a *Agent) Reward() float64 { return a.reward }

// Available returns the actions found by the last scan.
func (a *Agent) Available() []maze.Action { return a.available }

// ScanActions recomputes the actions available from the current position.
// A direction is available when its neighbor is inside the grid and Empty.
// Every other direction, the grid border included, costs one wall bump.
func (a *Agent) ScanActions() ([]maze.Action, error) {
	a.available = make([]maze.Action, 0, maze.NumActions)
	for _, action := range maze.Actions {
		next := a.position.Move(action)
		if a.grid.InBound(next.Row, next.Col) {
			kind, err := a.grid.CellKindAt(next.Row, next.Col)
			if err != nil {
				return nil, err
			}
			if kind == maze.Empty {
				a.available = append(a.available, action)
				continue
			}
		}
		a.reward += a.rewards.WallBump
	}
	return a.available, nil
}

// Move takes action: the current cell becomes Empty, the target cell becomes
// the Agent and the step penalty is added.
func (a *Agent) Move(action maze.Action) error {
	next := a.position.Move(action)
	kind, err := a.grid.CellKindAt(next.Row, next.Col)
	if err != nil {
		return err
	}
	if kind != maze.Empty {
		return ErrBlockedMove
	}

	if err := a.grid.SetCellKind(a.position.Row, a.position.Col, maze.Empty); err != nil {
		return err
	}
	if err := a.grid.SetCellKind(next.Row, next.Col, maze.Agent); err != nil {
		return err
	}

	a.previous = a.position
	a.position = next
	a.lastAction = action
	a.reward += a.rewards.Step
	return nil
}

// CheckIfWon reports whether the cell right of the agent is an End cell and
// adds the winning reward if so. Only the right neighbor is checked; mazes
// are expected to be exited towards the right.
func (a *Agent) CheckIfWon() bool {
	kind, err := a.grid.CellKindAt(a.position.Row, a.position.Col+1)
	if err != nil || kind != maze.End {
		return false
	}
	a.reward += a.rewards.Win
	return true
}

// Learn applies the value update for the last move and resets the reward.
func (a *Agent) Learn(discount float64) error {
	if err := ApplyUpdate(a.table, a.previous, a.lastAction, a.reward, a.position, discount); err != nil {
		return err
	}
	a.reward = 0
	return nil
}
