package i

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run describes a finished solving run.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Maze       string    `json:"maze"`
	Status     string    `json:"status"`
	Steps      int       `json:"steps"`
	Reward     float64   `json:"reward"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RunRecorder keeps a board of the runs that reached the exit.
type RunRecorder interface {
	// Record adds a run to the board of its maze.
	Record(ctx context.Context, run Run) error

	// Best returns up to n runs of maze with the fewest steps first.
	Best(ctx context.Context, maze string, n int64) ([]Run, error)

	// Count returns the number of runs recorded for maze.
	Count(ctx context.Context, maze string) (int64, error)
}
