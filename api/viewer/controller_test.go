package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beka-birhanu/vinom-qmaze/api"
	"github.com/beka-birhanu/vinom-qmaze/api/i"
	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	svc "github.com/beka-birhanu/vinom-qmaze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubBoard struct {
	runs  []svc.Run
	err   error
	asked int64
}

func (s *stubBoard) Record(context.Context, svc.Run) error { return nil }

func (s *stubBoard) Best(_ context.Context, _ string, n int64) ([]svc.Run, error) {
	s.asked = n
	return s.runs, s.err
}

func (s *stubBoard) Count(context.Context, string) (int64, error) {
	return int64(len(s.runs)), s.err
}

func newTestServer(t *testing.T, c *Controller) http.Handler {
	t.Helper()
	return api.NewRouter(api.Config{
		BaseURL:     "/api",
		Controllers: []i.Controller{c},
	}).Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGrid(t *testing.T) {
	c := NewController(Config{MazeName: "mazeEnv", Store: qtable.NewFileStore(filepath.Join(t.TempDir(), "QValues.json"))})
	h := newTestServer(t, c)

	t.Run("no snapshot yet", func(t *testing.T) {
		rec := get(t, h, "/api/v1/grid")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("latest snapshot", func(t *testing.T) {
		g, err := maze.FromRows([][]int{{1, 1, 1}, {5, 0, 4}})
		require.NoError(t, err)
		c.Render(g.Snapshot())
		require.NoError(t, g.SetCellKind(1, 0, maze.Empty))
		require.NoError(t, g.SetCellKind(1, 1, maze.Agent))
		c.Render(g.Snapshot())

		rec := get(t, h, "/api/v1/grid")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp GridResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "mazeEnv", resp.Maze)
		assert.Equal(t, 2, resp.Frames)
		assert.Equal(t, 2, resp.Grid.Rows)
		assert.Equal(t, []maze.CellKind{maze.Empty, maze.Agent, maze.End}, resp.Grid.Cells[1])
	})
}

func TestHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "QValues.json")
	store := qtable.NewFileStore(path)
	h := newTestServer(t, NewController(Config{MazeName: "mazeEnv", Store: store}))

	t.Run("no table stored", func(t *testing.T) {
		rec := get(t, h, "/api/v1/heatmap")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("stored table", func(t *testing.T) {
		require.NoError(t, store.Save(context.Background(), qtable.New([]maze.State{{Row: 1, Col: 1}})))

		rec := get(t, h, "/api/v1/heatmap")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
		assert.Contains(t, rec.Body.String(), "mazeEnv")
	})

	t.Run("corrupt table", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
		rec := get(t, h, "/api/v1/heatmap")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRuns(t *testing.T) {
	store := qtable.NewFileStore(filepath.Join(t.TempDir(), "QValues.json"))

	t.Run("no board", func(t *testing.T) {
		h := newTestServer(t, NewController(Config{MazeName: "mazeEnv", Store: store}))
		assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/runs").Code)
	})

	t.Run("best runs", func(t *testing.T) {
		board := &stubBoard{runs: []svc.Run{{ID: uuid.New(), Maze: "mazeEnv", Status: "won", Steps: 12}}}
		h := newTestServer(t, NewController(Config{MazeName: "mazeEnv", Store: store, Board: board}))

		rec := get(t, h, "/api/v1/runs?limit=3")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(3), board.asked)

		var resp RunsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Runs, 1)
		assert.Equal(t, 12, resp.Runs[0].Steps)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("empty board is an empty list", func(t *testing.T) {
		board := &stubBoard{}
		h := newTestServer(t, NewController(Config{MazeName: "mazeEnv", Store: store, Board: board}))

		rec := get(t, h, "/api/v1/runs")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(defaultRunsLimit), board.asked)
		assert.Contains(t, rec.Body.String(), `"runs":[]`)
		assert.Contains(t, rec.Body.String(), `"total":0`)
	})

	t.Run("bad limit", func(t *testing.T) {
		h := newTestServer(t, NewController(Config{MazeName: "mazeEnv", Store: store, Board: &stubBoard{}}))
		assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/runs?limit=zero").Code)
		assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/runs?limit=-2").Code)
	})

	t.Run("board failure", func(t *testing.T) {
		h := newTestServer(t, NewController(Config{MazeName: "mazeEnv", Store: store, Board: &stubBoard{err: errors.New("redis down")}}))
		assert.Equal(t, http.StatusInternalServerError, get(t, h, "/api/v1/runs").Code)
	})
}
