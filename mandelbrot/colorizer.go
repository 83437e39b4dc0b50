package mandelbrot

import (
	"image/color"
	"math"

	"MandelbrotExplorer/misc"
)

// InSetColor is used for points that never escaped.
var InSetColor = color.RGBA{A: 255}

// smoothOffset shifts the renormalized count so the smooth gradient lines up with the banded one.
const smoothOffset = 3.5

// Colorizer turns an escape result into a pixel colour.
type Colorizer struct {
	Palette    *Palette
	ColorScale float64
	Smooth     bool
}

// Color maps the result of EscapeTime to a colour. zx and zy are the escaping iterate and only matter when smoothing.
func (c Colorizer) Color(iterations int, maxIterations int, zx float64, zy float64) color.RGBA {
	if maxIterations <= 0 {
		return c.Palette[0]
	}
	if iterations >= maxIterations {
		return InSetColor
	}
	if !c.Smooth {
		return c.Palette[c.index(float64(iterations), maxIterations)]
	}

	// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Continuous_(smooth)_coloring
	logZn := math.Log(zx*zx+zy*zy) / 2
	nu := math.Log(logZn/math.Ln2) / math.Ln2
	realIteration := float64(iterations) + smoothOffset - nu
	if math.IsNaN(realIteration) || math.IsInf(realIteration, 0) {
		return c.Palette[c.index(float64(iterations), maxIterations)]
	}

	color1 := c.Palette[c.index(realIteration, maxIterations)]
	color2 := c.Palette[c.index(realIteration+1, maxIterations)]
	fraction := realIteration - math.Floor(realIteration)
	return misc.BlendRGBA(color1, color2, fraction)
}

func (c Colorizer) index(iteration float64, maxIterations int) int {
	idx := int(math.Floor(c.ColorScale*PaletteSize*iteration/float64(maxIterations))) % PaletteSize
	if idx < 0 {
		idx += PaletteSize
	}
	return idx
}
