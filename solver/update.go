package solver

import (
	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
)

// ApplyUpdate folds one step's reward into the table:
//
//	Q[prev][a] += discount * (reward + max(Q[cur]) - Q[prev][a])
//
// The caller owns the reward accumulator and must reset it afterwards.
func ApplyUpdate(t *qtable.Table, prev maze.State, a maze.Action, reward float64, cur maze.State, discount float64) error {
	future, err := t.MaxValue(cur)
	if err != nil {
		return err
	}
	q, err := t.ValueOf(prev, a)
	if err != nil {
		return err
	}
	return t.SetValueOf(prev, a, q+discount*(reward+future-q))
}
