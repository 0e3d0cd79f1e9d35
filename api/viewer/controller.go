package viewer

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/observer"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	svc "github.com/beka-birhanu/vinom-qmaze/service/i"
	"github.com/gin-gonic/gin"
)

const defaultRunsLimit = 10

// Controller keeps the latest snapshot handed to it by the solver and serves
// it along with the heatmap of the stored table and the run board.
type Controller struct {
	mazeName string
	store    qtable.Store
	board    svc.RunRecorder

	mu     sync.RWMutex
	latest *maze.Snapshot
	frames int
}

// Config holds the dependencies of a Controller.
type Config struct {
	MazeName string
	Store    qtable.Store
	Board    svc.RunRecorder // optional
}

// NewController creates a Controller.
func NewController(c Config) *Controller {
	return &Controller{
		mazeName: c.MazeName,
		store:    c.Store,
		board:    c.Board,
	}
}

// Render implements solver.Observer.
func (c *Controller) Render(s maze.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest = &s
	c.frames++
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/grid", c.grid)
	route.GET("/heatmap", c.heatmap)
	route.GET("/runs", c.runs)
}

// grid returns the latest snapshot.
func (c *Controller) grid(ctx *gin.Context) {
	c.mu.RLock()
	latest, frames := c.latest, c.frames
	c.mu.RUnlock()

	if latest == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no step taken yet"})
		return
	}

	ctx.JSON(http.StatusOK, &GridResponse{
		Maze:   c.mazeName,
		Frames: frames,
		Grid:   *latest,
	})
}

// heatmap renders the stored value table.
func (c *Controller) heatmap(ctx *gin.Context) {
	var buf bytes.Buffer
	err := observer.RenderHeatmap(ctx.Request.Context(), c.store, &buf, c.mazeName)
	if err != nil {
		if errors.Is(err, observer.ErrNoTable) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// runs lists the fastest won runs.
func (c *Controller) runs(ctx *gin.Context) {
	if c.board == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no run board configured"})
		return
	}

	limit := int64(defaultRunsLimit)
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := c.board.Best(ctx.Request.Context(), c.mazeName, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading the run board"})
		return
	}
	if runs == nil {
		runs = []svc.Run{}
	}
	total, err := c.board.Count(ctx.Request.Context(), c.mazeName)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading the run board"})
		return
	}

	ctx.JSON(http.StatusOK, &RunsResponse{Maze: c.mazeName, Total: total, Runs: runs})
}
