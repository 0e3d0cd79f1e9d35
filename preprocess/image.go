/*
Package preprocess turns a picture of a maze into a grid source.

The picture is converted to grayscale, smoothed and scaled down so that one
pixel becomes one cell. Dark cells are walls. Blank margins are trimmed, the
open cells of the left column and top row become the Start border, those of
the right column and bottom row the End border, and the agent is placed next
to the middle of the Start border.
*/
package preprocess

import (
	"fmt"
	"image"
	"sort"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/disintegration/imaging"
)

// Options tune the conversion.
type Options struct {
	// CellSize is the side of one cell in pixels.
	CellSize int
	// Threshold is the gray level below which a cell is a wall.
	Threshold uint8
	// Blur is the sigma of the Gaussian blur applied first, 0 to skip it.
	Blur float64
}

// DefaultOptions maps every pixel to a cell.
var DefaultOptions = Options{
	CellSize:  1,
	Threshold: 128,
	Blur:      1,
}

// FromImage reads the picture at path and converts it.
func FromImage(path string, opts Options) (*maze.Grid, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return FromImageData(img, opts)
}

// FromImageData converts img into a grid.
func FromImageData(img image.Image, opts Options) (*maze.Grid, error) {
	if opts.CellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size must be positive", maze.ErrFormat)
	}

	gray := imaging.Grayscale(img)
	if opts.Blur > 0 {
		gray = imaging.Blur(gray, opts.Blur)
	}

	bounds := gray.Bounds()
	cols, rows := bounds.Dx()/opts.CellSize, bounds.Dy()/opts.CellSize
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: image smaller than one cell", maze.ErrFormat)
	}
	if opts.CellSize > 1 {
		gray = imaging.Resize(gray, cols, rows, imaging.Box)
	}

	values := make([][]int, rows)
	for r := range values {
		values[r] = make([]int, cols)
		for c := range values[r] {
			// Grayscale keeps R, G and B equal.
			px := gray.NRGBAAt(c, r)
			if px.R < opts.Threshold {
				values[r][c] = int(maze.Wall)
			}
		}
	}
	return Label(values)
}

// Label trims a wall mask, marks the borders and places the agent. values
// holds Empty and Wall cells only.
func Label(values [][]int) (*maze.Grid, error) {
	values = trim(values)
	if len(values) == 0 || len(values[0]) < 2 {
		return nil, fmt.Errorf("%w: no maze found", maze.ErrFormat)
	}
	last, lastCol := len(values)-1, len(values[0])-1

	replaceColumn(values, 0, maze.Start)
	replaceRow(values[0], maze.Start)
	replaceColumn(values, lastCol, maze.End)
	replaceRow(values[last], maze.End)

	var starts []int
	for r, line := range values {
		if line[0] == int(maze.Start) {
			starts = append(starts, r)
		}
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("%w: no opening on the left border", maze.ErrFormat)
	}
	sort.Ints(starts)
	n := len(starts)
	row := (starts[(n-1)/2] + starts[n/2]) / 2
	values[row][1] = int(maze.Agent)

	return maze.FromRows(values)
}

// trim drops the rows and then the columns holding no wall.
func trim(values [][]int) [][]int {
	var kept [][]int
	for _, line := range values {
		for _, v := range line {
			if v != int(maze.Empty) {
				kept = append(kept, line)
				break
			}
		}
	}
	if len(kept) == 0 {
		return nil
	}

	var cols []int
	for c := range kept[0] {
		for _, line := range kept {
			if line[c] != int(maze.Empty) {
				cols = append(cols, c)
				break
			}
		}
	}

	out := make([][]int, len(kept))
	for r, line := range kept {
		out[r] = make([]int, len(cols))
		for i, c := range cols {
			out[r][i] = line[c]
		}
	}
	return out
}

func replaceColumn(values [][]int, col int, kind maze.CellKind) {
	for _, line := range values {
		if line[col] == int(maze.Empty) {
			line[col] = int(kind)
		}
	}
}

func replaceRow(line []int, kind maze.CellKind) {
	for c, v := range line {
		if v == int(maze.Empty) {
			line[c] = int(kind)
		}
	}
}
