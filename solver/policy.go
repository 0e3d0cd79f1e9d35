package solver

import (
	"errors"
	"math/rand"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
)

// ErrNoAvailableAction is returned when the agent is enclosed on all sides.
var ErrNoAvailableAction = errors.New("no available action")

// SelectAction picks the next action among available.
//
// With probability explorationRate the best valued available action is taken,
// ties broken uniformly. Otherwise any available action is taken uniformly.
// The name follows the configuration constant: a higher rate explores less.
func SelectAction(rng *rand.Rand, available []maze.Action, values qtable.Values, explorationRate float64) (maze.Action, error) {
	if len(available) == 0 {
		return 0, ErrNoAvailableAction
	}

	if rng.Float64() < explorationRate {
		best := values[available[0]]
		for _, a := range available[1:] {
			if values[a] > best {
				best = values[a]
			}
		}

		ties := make([]maze.Action, 0, len(available))
		for _, a := range available {
			if values[a] == best {
				ties = append(ties, a)
			}
		}
		return ties[rng.Intn(len(ties))], nil
	}

	return available[rng.Intn(len(available))], nil
}
