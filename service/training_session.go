package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/beka-birhanu/vinom-qmaze/service/i"
	"github.com/beka-birhanu/vinom-qmaze/solver"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TrainingSession runs the solver on a maze against a table store.
type TrainingSession struct {
	store        i.TableStore
	recorder     i.RunRecorder
	observer     solver.Observer
	solverConfig solver.Config
	logger       *logrus.Entry
}

// Config holds the collaborators of a TrainingSession.
type Config struct {
	Store    i.TableStore
	Recorder i.RunRecorder   // optional, won runs are recorded on it
	Observer solver.Observer // optional
	Solver   solver.Config
	Logger   *logrus.Entry
}

// NewTrainingSession validates c and returns a session ready to run.
func NewTrainingSession(c *Config) (*TrainingSession, error) {
	if c.Store == nil {
		return nil, errors.New("training session needs a table store")
	}
	if err := c.Solver.Validate(); err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &TrainingSession{
		store:        c.Store,
		recorder:     c.Recorder,
		observer:     c.Observer,
		solverConfig: c.Solver,
		logger:       logger,
	}, nil
}

// Run opens the value table of grid, solves it until the run stops and
// returns the run summary. Table load errors abort before any step. A store
// that is also an i.TableLocker stays leased for the whole run.
func (s *TrainingSession) Run(ctx context.Context, mazeName string, grid *maze.Grid) (i.Run, error) {
	run := i.Run{ID: uuid.New(), Maze: mazeName}
	logger := s.logger.WithFields(logrus.Fields{"run": run.ID.String(), "maze": mazeName})

	if locker, ok := s.store.(i.TableLocker); ok {
		release, err := locker.Lock(ctx)
		if err != nil {
			logger.WithError(err).Error("Leasing value table")
			return run, fmt.Errorf("lease value table: %w", err)
		}
		defer release()
	}

	table, created, err := qtable.Open(ctx, s.store, grid)
	if err != nil {
		logger.WithError(err).Error("Opening value table")
		return run, fmt.Errorf("open value table: %w", err)
	}
	if created {
		logger.WithField("states", table.Len()).Info("Created a fresh value table")
	} else {
		logger.WithField("states", table.Len()).Info("Loaded value table")
	}

	sv, err := solver.New(solver.Options{
		Grid:      grid,
		Table:     table,
		Persister: s.store,
		Observer:  s.observer,
		Logger:    logger,
		Config:    s.solverConfig,
	})
	if err != nil {
		return run, err
	}

	res, err := sv.Run(ctx)
	run.Status = res.Status.String()
	run.Steps = res.Steps
	run.Reward = res.Reward
	run.FinishedAt = time.Now().UTC()
	if err != nil {
		logger.WithError(err).Error("Run aborted")
		return run, err
	}

	if res.Status == solver.Won && s.recorder != nil {
		// The board is best effort; the table is already saved.
		if err := s.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
			logger.WithError(err).Warn("Recording run on the board")
		}
	}

	logger.WithFields(logrus.Fields{
		"status": run.Status,
		"steps":  run.Steps,
	}).Info("Training session finished")
	return run, nil
}
