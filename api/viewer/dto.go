// Package viewer exposes the solver's progress over HTTP.
package viewer

import (
	"github.com/beka-birhanu/vinom-qmaze/maze"
	svc "github.com/beka-birhanu/vinom-qmaze/service/i"
)

// GridResponse carries the latest grid snapshot.
type GridResponse struct {
	Maze   string        `json:"maze"`
	Frames int           `json:"frames"`
	Grid   maze.Snapshot `json:"grid"`
}

// RunsResponse lists the best runs of a maze out of Total recorded ones.
type RunsResponse struct {
	Maze  string    `json:"maze"`
	Total int64     `json:"total"`
	Runs  []svc.Run `json:"runs"`
}
