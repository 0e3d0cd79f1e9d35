/*
Package solver implements tabular Q-learning over a maze grid.

An Agent walks the grid one step at a time. Each step it picks an action with
SelectAction, moves, checks the exit to its right and, unless it has won or
been stopped, folds the step's reward into the value table with ApplyUpdate.
The Solver drives that cycle until the agent wins, the run is cancelled or
the step limit is hit, and persists the table on each of those outcomes.
*/
package solver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/sirupsen/logrus"
)

// ErrBlockedMove is returned when a move targets a cell that is not Empty.
var ErrBlockedMove = errors.New("move into a non empty cell")

// Status is the state of a solving run.
type Status int

const (
	Exploring Status = iota // Exploring is the normal operation.
	Won                     // Won means the agent reached the exit.
	Cancelled               // Cancelled means an external stop was requested.
	Exhausted               // Exhausted means the step limit was reached.
)

func (s Status) String() string {
	switch s {
	case Exploring:
		return "exploring"
	case Won:
		return "won"
	case Cancelled:
		return "cancelled"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Observer is notified with a copy of the grid after every step.
// Render must not block the solver for long.
type Observer interface {
	Render(snapshot maze.Snapshot)
}

// Persister saves the value table when a run ends.
type Persister interface {
	Save(ctx context.Context, t *qtable.Table) error
}

// Result summarizes a finished run.
type Result struct {
	Status Status
	Steps  int
	// Reward is the reward accumulated since the last update when the run
	// ended. For a won run it includes the winning reward.
	Reward   float64
	Position maze.State
}

// Options wires the collaborators of a Solver.
type Options struct {
	Grid      *maze.Grid
	Table     *qtable.Table
	Persister Persister
	Observer  Observer // optional
	Logger    *logrus.Entry
	Config    Config
}

// Solver runs the step loop of one agent.
type Solver struct {
	grid      *maze.Grid
	table     *qtable.Table
	agent     *Agent
	persister Persister
	observer  Observer
	logger    *logrus.Entry
	cfg       Config
	rng       *rand.Rand
	status    Status
}

// New validates opts and places the agent on the grid.
func New(opts Options) (*Solver, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Grid == nil || opts.Table == nil || opts.Persister == nil {
		return nil, fmt.Errorf("%w: grid, table and persister are required", ErrInvalidConfig)
	}

	agent, err := NewAgent(opts.Grid, opts.Table, opts.Config.Rewards)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	seed := opts.Config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Solver{
		grid:      opts.Grid,
		table:     opts.Table,
		agent:     agent,
		persister: opts.Persister,
		observer:  opts.Observer,
		logger:    logger,
		cfg:       opts.Config,
		rng:       rand.New(rand.NewSource(seed)),
		status:    Exploring,
	}, nil
}

// Agent returns the solver's agent.
func (s *Solver) Agent() *Agent { return s.agent }

// Status returns the current run status.
func (s *Solver) Status() Status { return s.status }

// Run steps the agent until it wins, ctx is cancelled or the step limit is
// reached. Cancellation is polled once per step, after the step completes,
// so an update is never interrupted half way. The table is persisted on each
// of those outcomes. A failing step aborts the run without persisting.
func (s *Solver) Run(ctx context.Context) (Result, error) {
	if _, err := s.agent.ScanActions(); err != nil {
		return s.result(0), err
	}

	s.logger.WithField("start", s.agent.Position().String()).Info("Learning the maze")

	for steps := 1; ; steps++ {
		if err := s.step(ctx); err != nil {
			return s.result(steps), fmt.Errorf("step %d: %w", steps, err)
		}

		if s.cfg.LogEvery > 0 && steps%s.cfg.LogEvery == 0 {
			s.logger.WithFields(logrus.Fields{
				"steps":    steps,
				"position": s.agent.Position().String(),
			}).Debug("Still exploring")
		}

		switch {
		case s.status == Won:
		case ctx.Err() != nil:
			s.status = Cancelled
		case s.cfg.MaxSteps > 0 && steps >= s.cfg.MaxSteps:
			s.status = Exhausted
		default:
			continue
		}

		// A cancelled ctx must not abort the final save.
		if err := s.persister.Save(context.WithoutCancel(ctx), s.table); err != nil {
			return s.result(steps), fmt.Errorf("persist value table: %w", err)
		}

		res := s.result(steps)
		s.logger.WithFields(logrus.Fields{
			"status": res.Status.String(),
			"steps":  res.Steps,
		}).Info("Run finished, value table saved")
		return res, nil
	}
}

// step performs one decision, move and update cycle.
func (s *Solver) step(ctx context.Context) error {
	values, err := s.table.Get(s.agent.Position())
	if err != nil {
		return err
	}

	action, err := SelectAction(s.rng, s.agent.Available(), values, s.cfg.ExplorationRate)
	if err != nil {
		return err
	}
	if err := s.agent.Move(action); err != nil {
		return err
	}

	if s.agent.CheckIfWon() {
		s.status = Won
	} else if ctx.Err() == nil {
		if _, err := s.agent.ScanActions(); err != nil {
			return err
		}
		if err := s.agent.Learn(s.cfg.DiscountFactor); err != nil {
			return err
		}
	}

	if s.observer != nil {
		s.observer.Render(s.grid.Snapshot())
	}
	return nil
}

func (s *Solver) result(steps int) Result {
	return Result{
		Status:   s.status,
		Steps:    steps,
		Reward:   s.agent.Reward(),
		Position: s.agent.Position(),
	}
}
