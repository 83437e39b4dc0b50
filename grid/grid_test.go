package grid

import (
	"errors"
	"image"
	"math"
	"testing"
)

// numbered returns a grid whose records hold 1 + their row-major index so moved records can be traced.
func numbered(t *testing.T, width int, height int) *Grid[int] {
	t.Helper()
	g, err := New[int](width, height)
	if err != nil {
		t.Fatalf("New(%d, %d) returned %v", width, height, err)
	}
	for i := range g.Cells() {
		g.Cells()[i] = i + 1
	}
	return g
}

func TestResizeRejectsBadDimensions(t *testing.T) {
	g := numbered(t, 3, 2)
	for _, size := range [][2]int{{0, 2}, {2, 0}, {-1, 5}, {MaxCells, 2}} {
		err := g.Resize(size[0], size[1])
		if err == nil {
			t.Errorf("Resize(%d, %d) accepted", size[0], size[1])
		}
	}
	if g.Width() != 3 || g.Height() != 2 || g.At(2, 1) != 6 {
		t.Errorf("failed resize changed the grid: %dx%d", g.Width(), g.Height())
	}
	if err := g.Resize(0, 1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestFillRectClamps(t *testing.T) {
	g := numbered(t, 4, 4)
	g.FillRect(image.Rect(-2, 2, 2, 10), 0)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			cleared := y >= 2 && x < 2
			if (g.At(x, y) == 0) != cleared {
				t.Errorf("cell (%d, %d) = %d, cleared expected %t", x, y, g.At(x, y), cleared)
			}
		}
	}
}

func TestShiftPreservesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
	}{
		{"right down", 1, 2},
		{"left up", -2, -1},
		{"right up", 2, -1},
		{"left down", -1, 1},
		{"horizontal", 3, 0},
		{"vertical", 0, -3},
	}

	const width, height = 5, 4
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := numbered(t, width, height)
			after := numbered(t, width, height)
			after.Shift(test.dx, test.dy, 0)

			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					sx, sy := x-test.dx, y-test.dy
					want := 0
					if sx >= 0 && sx < width && sy >= 0 && sy < height {
						want = before.At(sx, sy)
					}
					if got := after.At(x, y); got != want {
						t.Errorf("cell (%d, %d) = %d, want %d", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestShiftBeyondGridBlanksEverything(t *testing.T) {
	g := numbered(t, 3, 3)
	g.Shift(0, -3, -1)
	for i, v := range g.Cells() {
		if v != -1 {
			t.Fatalf("cell %d = %d after oversized shift", i, v)
		}
	}
}

func TestShiftByExtremeOffsets(t *testing.T) {
	offsets := []image.Point{
		{math.MinInt, 0},
		{math.MaxInt, 0},
		{0, math.MinInt},
		{0, math.MaxInt},
		{math.MinInt, math.MinInt},
	}
	for _, offset := range offsets {
		g := numbered(t, 4, 3)
		g.Shift(offset.X, offset.Y, -1)
		for i, v := range g.Cells() {
			if v != -1 {
				t.Fatalf("cell %d = %d after shift by %v", i, v, offset)
			}
		}
		bands := ExposedBands(4, 3, offset.X, offset.Y)
		if len(bands) != 1 || bands[0] != image.Rect(0, 0, 4, 3) {
			t.Errorf("ExposedBands(%v) = %v", offset, bands)
		}
	}
}

func TestExposedBandsCoverExactlyTheNewArea(t *testing.T) {
	const width, height = 6, 5
	for dx := -width; dx <= width; dx++ {
		for dy := -height; dy <= height; dy++ {
			covered := make(map[image.Point]int)
			for _, band := range ExposedBands(width, height, dx, dy) {
				for y := band.Min.Y; y < band.Max.Y; y++ {
					for x := band.Min.X; x < band.Max.X; x++ {
						covered[image.Pt(x, y)]++
					}
				}
			}

			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					sx, sy := x-dx, y-dy
					exposed := sx < 0 || sx >= width || sy < 0 || sy >= height
					count := covered[image.Pt(x, y)]
					if exposed && count != 1 || !exposed && count != 0 {
						t.Fatalf("shift (%d, %d): cell (%d, %d) covered %d times, exposed %t", dx, dy, x, y, count, exposed)
					}
				}
			}
		}
	}
}
