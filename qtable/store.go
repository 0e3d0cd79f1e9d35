package qtable

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beka-birhanu/vinom-qmaze/maze"
)

// Store persists a value table.
type Store interface {
	// Load returns the stored table. found is false when nothing, or an empty
	// resource, is stored.
	Load(ctx context.Context) (t *Table, found bool, err error)

	// Save fully overwrites the stored table.
	Save(ctx context.Context, t *Table) error
}

// FileStore keeps the table as a JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file. A missing or zero-length file is not found.
func (s *FileStore) Load(_ context.Context) (*Table, bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	t, err := Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.Path, err)
	}
	return t, true, nil
}

// Save writes the table to a temporary file next to Path and renames it over
// Path, so a crash never leaves a half-written table behind.
func (s *FileStore) Save(_ context.Context, t *Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Open loads the table for grid from store. When the store holds nothing, a
// zero table over the grid's traversable states is created and saved. When
// it holds a table, grid states missing from it are registered at zero. A
// corrupt table is an error; it is never replaced silently.
func Open(ctx context.Context, store Store, grid *maze.Grid) (t *Table, created bool, err error) {
	t, found, err := store.Load(ctx)
	if err != nil {
		return nil, false, err
	}

	if !found {
		t = New(grid.TraversableStates())
		if err := store.Save(ctx, t); err != nil {
			return nil, false, fmt.Errorf("create value table: %w", err)
		}
		return t, true, nil
	}

	for _, s := range grid.TraversableStates() {
		t.Register(s)
	}
	return t, false, nil
}
