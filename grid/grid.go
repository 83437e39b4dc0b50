// Package grid stores one record per pixel in row-major order and knows how to move those records around when the
// view they describe is panned.
package grid

import (
	"errors"
	"fmt"
	"image"
)

// MaxCells bounds a single allocation so a bogus size is reported instead of exhausting memory.
const MaxCells = 1 << 28

var (
	ErrInvalidSize = errors.New("grid dimensions must be positive")
	ErrTooLarge    = errors.New("grid is too large")
)

type Grid[T any] struct {
	width  int
	height int
	cells  []T
}

func New[T any](width int, height int) (*Grid[T], error) {
	g := &Grid[T]{}
	if err := g.Resize(width, height); err != nil {
		return nil, err
	}
	return g, nil
}

// Resize reallocates the grid with zero records. On error the grid keeps its previous contents and dimensions.
func (g *Grid[T]) Resize(width int, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width > MaxCells/height {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	g.cells = make([]T, width*height)
	g.width = width
	g.height = height
	return nil
}

func (g *Grid[T]) Width() int {
	return g.width
}

func (g *Grid[T]) Height() int {
	return g.height
}

func (g *Grid[T]) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

func (g *Grid[T]) At(x int, y int) T {
	return g.cells[y*g.width+x]
}

func (g *Grid[T]) Set(x int, y int, value T) {
	g.cells[y*g.width+x] = value
}

// Row returns the records of row y. The slice aliases the grid storage.
func (g *Grid[T]) Row(y int) []T {
	return g.cells[y*g.width : (y+1)*g.width]
}

// Cells returns every record in row-major order. The slice aliases the grid storage.
func (g *Grid[T]) Cells() []T {
	return g.cells
}

func (g *Grid[T]) Fill(value T) {
	for i := range g.cells {
		g.cells[i] = value
	}
}

// FillRect clamps r to the grid and fills what is left of it with value.
func (g *Grid[T]) FillRect(r image.Rectangle, value T) {
	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := g.cells[y*g.width+r.Min.X : y*g.width+r.Max.X]
		for i := range row {
			row[i] = value
		}
	}
}

// Shift moves every record by (dx, dy) and fills the bands uncovered by the move with blank. Records pushed past an
// edge are dropped. A shift at least as large as the grid in either direction blanks everything.
func (g *Grid[T]) Shift(dx int, dy int, blank T) {
	if dx == 0 && dy == 0 {
		return
	}
	if covers(g.width, g.height, dx, dy) {
		g.Fill(blank)
		return
	}

	n := g.width - dx
	if dx < 0 {
		n = g.width + dx
	}
	srcX, dstX := 0, dx
	if dx < 0 {
		srcX, dstX = -dx, 0
	}

	// Walk rows from the edge the records move towards so no row is overwritten before it has been read. Within a
	// row copy handles the overlap.
	if dy > 0 {
		for y := g.height - 1 - dy; y >= 0; y-- {
			g.moveRow(y, y+dy, srcX, dstX, n)
		}
	} else {
		for y := -dy; y < g.height; y++ {
			g.moveRow(y, y+dy, srcX, dstX, n)
		}
	}

	for _, band := range ExposedBands(g.width, g.height, dx, dy) {
		g.FillRect(band, blank)
	}
}

func (g *Grid[T]) moveRow(srcY int, dstY int, srcX int, dstX int, n int) {
	src := g.cells[srcY*g.width+srcX : srcY*g.width+srcX+n]
	dst := g.cells[dstY*g.width+dstX : dstY*g.width+dstX+n]
	copy(dst, src)
}

// ExposedBands returns the (at most two) rectangles of a width x height area left without data after shifting it by
// (dx, dy): a full-width band of |dy| rows and a band of |dx| columns covering the remaining rows.
func ExposedBands(width int, height int, dx int, dy int) []image.Rectangle {
	bounds := image.Rect(0, 0, width, height)
	if covers(width, height, dx, dy) {
		return []image.Rectangle{bounds}
	}

	bands := make([]image.Rectangle, 0, 2)
	rows := bounds
	switch {
	case dy > 0:
		bands = append(bands, image.Rect(0, 0, width, dy))
		rows.Min.Y = dy
	case dy < 0:
		bands = append(bands, image.Rect(0, height+dy, width, height))
		rows.Max.Y = height + dy
	}
	switch {
	case dx > 0:
		bands = append(bands, image.Rect(0, rows.Min.Y, dx, rows.Max.Y))
	case dx < 0:
		bands = append(bands, image.Rect(width+dx, rows.Min.Y, width, rows.Max.Y))
	}
	return bands
}

// covers reports whether a shift by (dx, dy) moves every cell out of a width x height area. The bounds are compared
// directly since negating math.MinInt overflows.
func covers(width int, height int, dx int, dy int) bool {
	return dx <= -width || dx >= width || dy <= -height || dy >= height
}
