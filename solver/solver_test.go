package solver

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu     sync.Mutex
	saves  int
	tables []*qtable.Table
	err    error
}

func (p *recordingPersister) Save(ctx context.Context, t *qtable.Table) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.saves++
	p.tables = append(p.tables, t.Clone())
	return p.err
}

type observerFunc func(maze.Snapshot)

func (f observerFunc) Render(s maze.Snapshot) { f(s) }

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestSolver(t *testing.T, rows [][]int, p Persister, o Observer, cfg Config) (*Solver, *qtable.Table) {
	t.Helper()
	g, err := maze.FromRows(rows)
	require.NoError(t, err)
	table := qtable.New(g.TraversableStates())
	s, err := New(Options{
		Grid:      g,
		Table:     table,
		Persister: p,
		Observer:  o,
		Logger:    quietLogger(),
		Config:    cfg,
	})
	require.NoError(t, err)
	return s, table
}

// A corridor with no exit keeps the agent walking until it is stopped.
var deadEnd = [][]int{
	{1, 1, 1, 1, 1},
	{1, 5, 0, 0, 1},
	{1, 1, 1, 1, 1},
}

func seeded(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return cfg
}

func TestSolverWinsInOneStep(t *testing.T) {
	persister := &recordingPersister{}
	renders := 0
	observer := observerFunc(func(s maze.Snapshot) {
		renders++
		assert.Equal(t, maze.Agent, s.Cells[1][2])
	})

	s, table := newTestSolver(t, [][]int{
		{1, 1, 1, 1},
		{1, 5, 0, 4},
		{1, 1, 1, 1},
	}, persister, observer, seeded(1))
	assert.Equal(t, 2, table.Len())

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Won, res.Status)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, maze.State{Row: 1, Col: 2}, res.Position)
	want := DefaultRewards.Win + DefaultRewards.Step + 3*DefaultRewards.WallBump
	assert.InDelta(t, want, res.Reward, 1e-9)
	assert.Equal(t, 1, renders)

	require.Equal(t, 1, persister.saves)
	// The winning step does not fold into the table.
	for _, st := range table.States() {
		v, err := table.Get(st)
		require.NoError(t, err)
		assert.Equal(t, qtable.Values{}, v)
	}
}

func TestSolverChecksTheExitOnlyAfterMoving(t *testing.T) {
	persister := &recordingPersister{}
	s, _ := newTestSolver(t, [][]int{
		{1, 0, 1},
		{1, 5, 4},
		{1, 1, 1},
	}, persister, nil, seeded(2))

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Won, res.Status)
	// Up to the only free cell, then back down next to the exit.
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, maze.State{Row: 1, Col: 1}, res.Position)
}

func TestSolverCancellation(t *testing.T) {
	t.Run("stops after the step in flight and persists once", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		persister := &recordingPersister{}
		renders := 0
		observer := observerFunc(func(maze.Snapshot) {
			renders++
			if renders == 3 {
				cancel()
			}
		})

		s, _ := newTestSolver(t, deadEnd, persister, observer, seeded(7))
		res, err := s.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, Cancelled, res.Status)
		assert.Equal(t, 3, res.Steps)
		assert.Equal(t, 3, renders)
		assert.Equal(t, 1, persister.saves)
		assert.Equal(t, Cancelled, s.Status())
	})

	t.Run("update is skipped once cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		persister := &recordingPersister{}
		s, table := newTestSolver(t, deadEnd, persister, nil, seeded(7))
		res, err := s.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, Cancelled, res.Status)
		assert.Equal(t, 1, res.Steps)
		require.Equal(t, 1, persister.saves)
		for _, st := range table.States() {
			v, err := table.Get(st)
			require.NoError(t, err)
			assert.Equal(t, qtable.Values{}, v)
		}
	})
}

func TestSolverExhausted(t *testing.T) {
	persister := &recordingPersister{}
	cfg := seeded(3)
	cfg.MaxSteps = 25

	s, table := newTestSolver(t, deadEnd, persister, nil, cfg)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Exhausted, res.Status)
	assert.Equal(t, 25, res.Steps)
	require.Equal(t, 1, persister.saves)

	// Walking the corridor must have been learned as costly.
	learned := false
	for _, st := range table.States() {
		v, err := table.Get(st)
		require.NoError(t, err)
		for _, q := range v {
			if q < 0 {
				learned = true
			}
		}
	}
	assert.True(t, learned)
}

func TestSolverStepErrorDoesNotPersist(t *testing.T) {
	persister := &recordingPersister{}
	s, _ := newTestSolver(t, [][]int{
		{1, 1, 1},
		{1, 5, 1},
		{1, 1, 1},
	}, persister, nil, seeded(1))

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoAvailableAction)
	assert.Zero(t, persister.saves)
}

func TestSolverPersistError(t *testing.T) {
	persister := &recordingPersister{err: errors.New("disk full")}
	s, _ := newTestSolver(t, [][]int{{5, 0, 4}}, persister, nil, seeded(1))

	res, err := s.Run(context.Background())
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, Won, res.Status)
}

func TestSolverSolvesGeneratedMaze(t *testing.T) {
	g, err := maze.Generate(5, 5, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	table := qtable.New(g.TraversableStates())

	persister := &recordingPersister{}
	cfg := seeded(5)
	cfg.MaxSteps = 1_000_000
	s, err := New(Options{Grid: g, Table: table, Persister: persister, Logger: quietLogger(), Config: cfg})
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Won, res.Status)
	assert.Equal(t, maze.State{Row: 9, Col: 9}, res.Position)
	assert.Equal(t, 1, persister.saves)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	g, err := maze.FromRows([][]int{{5, 0}})
	require.NoError(t, err)
	table := qtable.New(g.TraversableStates())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero discount", func(c *Config) { c.DiscountFactor = 0 }},
		{"discount above one", func(c *Config) { c.DiscountFactor = 1.5 }},
		{"negative exploration", func(c *Config) { c.ExplorationRate = -0.1 }},
		{"positive bump", func(c *Config) { c.Rewards.WallBump = 1 }},
		{"negative step limit", func(c *Config) { c.MaxSteps = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(Options{Grid: g, Table: table, Persister: &recordingPersister{}, Config: cfg})
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("missing persister", func(t *testing.T) {
		_, err := New(Options{Grid: g, Table: table, Config: DefaultConfig()})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
