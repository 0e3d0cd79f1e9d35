package i

import (
	"context"

	"github.com/beka-birhanu/vinom-qmaze/qtable"
)

// TableStore persists the value table of one maze.
type TableStore interface {
	// Load returns the stored table. found is false when nothing is stored
	// yet; a stored table that cannot be decoded is an error.
	Load(ctx context.Context) (t *qtable.Table, found bool, err error)

	// Save replaces the stored table.
	Save(ctx context.Context, t *qtable.Table) error
}

// TableLocker is implemented by stores shared between processes. A session
// holds the lease from loading the table until after its final save.
type TableLocker interface {
	Lock(ctx context.Context) (release func(), err error)
}
