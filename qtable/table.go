// Package qtable holds the learned per-state, per-action value estimates and
// their persisted form.
package qtable

import (
	"errors"
	"fmt"
	"slices"

	"github.com/beka-birhanu/vinom-qmaze/maze"
)

var (
	// ErrUnknownState is returned when a state was never registered.
	ErrUnknownState = errors.New("unknown state")
	// ErrCorruptState is returned when a persisted table cannot be decoded.
	ErrCorruptState = errors.New("corrupt value table")
)

// Values holds one estimate per action, indexed by maze.Action.
type Values [maze.NumActions]float64

// Max returns the largest of the values.
func (v Values) Max() float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Mean returns the average of the values.
func (v Values) Mean() float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / maze.NumActions
}

// Table maps states to their action values.
type Table struct {
	values map[maze.State]Values
}

// New returns a table with a zero entry for each of the given states.
func New(states []maze.State) *Table {
	t := &Table{values: make(map[maze.State]Values, len(states))}
	for _, s := range states {
		t.values[s] = Values{}
	}
	return t
}

// Register adds a zero entry for s if it has none. It reports whether an
// entry was added.
func (t *Table) Register(s maze.State) bool {
	if _, ok := t.values[s]; ok {
		return false
	}
	t.values[s] = Values{}
	return true
}

// Len returns the number of registered states.
func (t *Table) Len() int {
	return len(t.values)
}

// States returns the registered states in row-major order.
func (t *Table) States() []maze.State {
	states := make([]maze.State, 0, len(t.values))
	for s := range t.values {
		states = append(states, s)
	}
	slices.SortFunc(states, maze.State.Compare)
	return states
}

// Get returns the values of s.
func (t *Table) Get(s maze.State) (Values, error) {
	v, ok := t.values[s]
	if !ok {
		return Values{}, fmt.Errorf("%w: %s", ErrUnknownState, s)
	}
	return v, nil
}

// ValueOf returns the value of taking a in s.
func (t *Table) ValueOf(s maze.State, a maze.Action) (float64, error) {
	v, err := t.Get(s)
	if err != nil {
		return 0, err
	}
	return v[a], nil
}

// SetValueOf overwrites the value of taking a in s.
func (t *Table) SetValueOf(s maze.State, a maze.Action, value float64) error {
	v, err := t.Get(s)
	if err != nil {
		return err
	}
	v[a] = value
	t.values[s] = v
	return nil
}

// MaxValue returns the best action value of s.
func (t *Table) MaxValue(s maze.State) (float64, error) {
	v, err := t.Get(s)
	if err != nil {
		return 0, err
	}
	return v.Max(), nil
}

// Mean returns the average action value of s.
func (t *Table) Mean(s maze.State) (float64, error) {
	v, err := t.Get(s)
	if err != nil {
		return 0, err
	}
	return v.Mean(), nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{values: make(map[maze.State]Values, len(t.values))}
	for s, v := range t.values {
		c.values[s] = v
	}
	return c
}
