/*
Package observer renders the solver's progress.

Terminal redraws the grid on a terminal, Async decouples any observer from the
solver loop and Multi fans a snapshot out to several observers. The heatmap
functions render a value table as an HTML page.
*/
package observer

import (
	"bufio"
	"io"
	"sync"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/logrusorgru/aurora"
)

const clearScreen = "\033[H\033[2J"

// Terminal draws each snapshot as a block of two-character cells.
type Terminal struct {
	w     io.Writer
	au    aurora.Aurora
	clear bool
	mu    sync.Mutex
}

// NewTerminal returns a Terminal writing to w. With colors the cells are
// painted, walls white and the agent green on black; the screen is cleared
// before each frame.
func NewTerminal(w io.Writer, colors bool) *Terminal {
	return &Terminal{
		w:     w,
		au:    aurora.NewAurora(colors),
		clear: colors,
	}
}

// Render writes one frame. Write errors are dropped.
func (t *Terminal) Render(s maze.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := bufio.NewWriter(t.w)
	if t.clear {
		_, _ = b.WriteString(clearScreen)
	}
	for _, row := range s.Cells {
		for _, kind := range row {
			_, _ = b.WriteString(t.cell(kind))
		}
		_ = b.WriteByte('\n')
	}
	_ = b.Flush()
}

func (t *Terminal) cell(kind maze.CellKind) string {
	switch kind {
	case maze.Wall:
		return t.au.BgWhite("##").String()
	case maze.Agent:
		return t.au.BgGreen("@@").String()
	case maze.Start:
		return t.au.BgBlack("S ").String()
	case maze.End:
		return t.au.BgBlack("E ").String()
	default:
		return t.au.BgBlack("  ").String()
	}
}
