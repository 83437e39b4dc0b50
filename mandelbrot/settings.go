package mandelbrot

import (
	"fmt"
	"math"

	"github.com/BrugadaSyndrome/bslogger"
)

type Settings struct {
	logger bslogger.Logger

	Bailout        float64 `koanf:"bailout"`
	CenterX        float64 `koanf:"center_x"`
	CenterY        float64 `koanf:"center_y"`
	ColorScale     float64 `koanf:"color_scale"`
	Colormap       int     `koanf:"colormap"`
	Height         int     `koanf:"height"`
	MaxIterations  int     `koanf:"iterations"`
	Scale          float64 `koanf:"scale"`
	SmoothColoring bool    `koanf:"smooth"`
	Width          int     `koanf:"width"`
}

// DefaultSettings mirrors the values the explorer starts with.
func DefaultSettings() Settings {
	return Settings{
		Bailout:        DefaultBailout,
		ColorScale:     4,
		Colormap:       1,
		Height:         720,
		MaxIterations:  100,
		Scale:          1,
		SmoothColoring: true,
		Width:          1280,
	}
}

func (s *Settings) String() string {
	output := "\nMandelbrot settings\n"
	output += fmt.Sprintf("Bailout: %g\n", s.Bailout)
	output += fmt.Sprintf("Center: (%g, %g)\n", s.CenterX, s.CenterY)
	output += fmt.Sprintf("Colormap: %s\n", PaletteName(s.Colormap))
	output += fmt.Sprintf("Color Scale: %g\n", s.ColorScale)
	output += fmt.Sprintf("Max Iterations: %d\n", s.MaxIterations)
	output += fmt.Sprintf("Scale: %g\n", s.Scale)
	output += fmt.Sprintf("Size: %dx%d\n", s.Width, s.Height)
	output += fmt.Sprintf("Smooth Coloring: %t\n", s.SmoothColoring)
	return output
}

// Verify replaces every out of range value with its default.
func (s *Settings) Verify() error {
	s.logger = bslogger.NewLogger("MandelbrotSettings", bslogger.Normal, nil)
	defaults := DefaultSettings()

	if !(s.Bailout >= MinBailout) || math.IsInf(s.Bailout, 0) {
		s.Bailout = defaults.Bailout
	}
	if math.IsNaN(s.CenterX) || math.IsInf(s.CenterX, 0) {
		s.CenterX = 0
	}
	if math.IsNaN(s.CenterY) || math.IsInf(s.CenterY, 0) {
		s.CenterY = 0
	}
	if !(s.ColorScale > 0) || math.IsInf(s.ColorScale, 0) {
		s.ColorScale = defaults.ColorScale
	}
	if s.Colormap < 0 || s.Colormap >= PaletteCount() {
		s.logger.Infof("Unknown colormap %d, using %s", s.Colormap, PaletteName(defaults.Colormap))
		s.Colormap = defaults.Colormap
	}
	if s.Height <= 0 {
		s.Height = defaults.Height
	}
	if s.MaxIterations < 0 {
		s.MaxIterations = defaults.MaxIterations
	}
	if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
		s.Scale = defaults.Scale
	}
	// s.SmoothColoring defaults to false already
	if s.Width <= 0 {
		s.Width = defaults.Width
	}
	return nil
}
