package mandelbrot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"MandelbrotExplorer/misc"
)

const PaletteSize = 256

var ErrUnknownPalette = errors.New("unknown colormap")

type Palette [PaletteSize]color.RGBA

// blend returns count colours stepping evenly from start towards end, end itself excluded.
func blend(start color.RGBA, end color.RGBA, count int) []color.RGBA {
	colors := make([]color.RGBA, count)
	for i := range colors {
		colors[i] = misc.BlendRGBA(start, end, float64(i)/float64(count))
	}
	return colors
}

// colorStop places a colour at a position in [0, 1] along a gradient.
type colorStop struct {
	position float64
	color    color.RGBA
}

// newPalette spreads PaletteSize entries over the gradient described by stops, which must start at 0 and end at 1.
func newPalette(stops ...colorStop) *Palette {
	var palette Palette
	colors := make([]color.RGBA, 0, PaletteSize)
	for i := 0; i+1 < len(stops); i++ {
		start := int(math.Round(stops[i].position * PaletteSize))
		end := int(math.Round(stops[i+1].position * PaletteSize))
		colors = append(colors, blend(stops[i].color, stops[i+1].color, end-start)...)
	}
	copy(palette[:], colors)
	return &palette
}

func rgb(r uint8, g uint8, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var paletteNames = []string{
	"gray", "ultra", "viridis", "magma", "inferno", "turbo",
}

var palettes = []*Palette{
	newPalette(
		colorStop{0, rgb(0, 0, 0)},
		colorStop{1, rgb(255, 255, 255)},
	),
	newPalette(
		colorStop{0, rgb(0, 7, 100)},
		colorStop{0.16, rgb(32, 107, 203)},
		colorStop{0.42, rgb(237, 255, 255)},
		colorStop{0.6425, rgb(255, 170, 0)},
		colorStop{0.8575, rgb(0, 2, 0)},
		colorStop{1, rgb(0, 7, 100)},
	),
	newPalette(
		colorStop{0, rgb(68, 1, 84)},
		colorStop{0.25, rgb(59, 82, 139)},
		colorStop{0.5, rgb(33, 145, 140)},
		colorStop{0.75, rgb(94, 201, 98)},
		colorStop{1, rgb(253, 231, 37)},
	),
	newPalette(
		colorStop{0, rgb(0, 0, 4)},
		colorStop{0.25, rgb(81, 18, 124)},
		colorStop{0.5, rgb(183, 55, 121)},
		colorStop{0.75, rgb(252, 137, 97)},
		colorStop{1, rgb(252, 253, 191)},
	),
	newPalette(
		colorStop{0, rgb(0, 0, 4)},
		colorStop{0.25, rgb(87, 16, 110)},
		colorStop{0.5, rgb(188, 55, 84)},
		colorStop{0.75, rgb(249, 142, 9)},
		colorStop{1, rgb(252, 255, 164)},
	),
	newPalette(
		colorStop{0, rgb(48, 18, 59)},
		colorStop{0.15, rgb(70, 107, 227)},
		colorStop{0.3, rgb(40, 187, 236)},
		colorStop{0.45, rgb(49, 242, 153)},
		colorStop{0.6, rgb(164, 252, 60)},
		colorStop{0.75, rgb(251, 185, 56)},
		colorStop{0.9, rgb(228, 70, 11)},
		colorStop{1, rgb(122, 4, 3)},
	),
}

// PaletteCount is the number of built-in colormaps.
func PaletteCount() int {
	return len(palettes)
}

// PaletteByIndex returns the colormap at idx in the order gray, ultra, viridis, magma, inferno, turbo.
func PaletteByIndex(idx int) (*Palette, error) {
	if idx < 0 || idx >= len(palettes) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownPalette, idx)
	}
	return palettes[idx], nil
}

func PaletteName(idx int) string {
	if idx < 0 || idx >= len(paletteNames) {
		return "unknown"
	}
	return paletteNames[idx]
}

// PaletteIndex looks a colormap up by name, ignoring case.
func PaletteIndex(name string) (int, error) {
	for i, n := range paletteNames {
		if strings.EqualFold(n, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}
