package misc

import (
	"image/color"
	"math"
)

// Lerp returns the point a fraction of the way from a to b.
func Lerp(a float64, b float64, fraction float64) float64 {
	return a + (b-a)*fraction
}

func lerpChannel(a uint8, b uint8, fraction float64) uint8 {
	return uint8(math.Round(Lerp(float64(a), float64(b), fraction)))
}

// BlendRGBA mixes from and to channel by channel. The result is always opaque.
func BlendRGBA(from color.RGBA, to color.RGBA, fraction float64) color.RGBA {
	return color.RGBA{
		R: lerpChannel(from.R, to.R, fraction),
		G: lerpChannel(from.G, to.G, fraction),
		B: lerpChannel(from.B, to.B, fraction),
		A: 255,
	}
}

// PackARGB packs c as alpha, red, green, blue from the high byte to the low byte.
func PackARGB(c color.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func UnpackARGB(p uint32) color.RGBA {
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: uint8(p >> 24)}
}
