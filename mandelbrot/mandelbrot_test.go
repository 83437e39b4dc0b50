package mandelbrot

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestEscapeTime(t *testing.T) {
	tests := []struct {
		name          string
		cx, cy        float64
		maxIterations int
		bailout       float64
		want          int
	}{
		{"origin small budget", 0, 0, 1, MinBailout, 1},
		{"origin", 0, 0, 10, MinBailout, 10},
		{"origin large budget", 0, 0, 5000, DefaultBailout, 5000},
		{"far point", 2, 2, 10, MinBailout, 0},
		{"far point huge budget", 2, 2, 100000, MinBailout, 0},
		{"no budget", -1, 0, 0, MinBailout, 0},
		{"period two bulb", -1, 0, 1000, MinBailout, 1000},
		{"just outside", 0.3, 0, 1000, MinBailout, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, _, _ := EscapeTime(test.cx, test.cy, test.maxIterations, test.bailout)
			if test.name == "just outside" {
				// 0.3 lies outside the cardioid but takes a while to leave
				if got <= 0 || got >= test.maxIterations {
					t.Errorf("EscapeTime(%g, %g) = %d, expected an escape", test.cx, test.cy, got)
				}
				return
			}
			if got != test.want {
				t.Errorf("EscapeTime(%g, %g, %d) = %d, want %d", test.cx, test.cy, test.maxIterations, got, test.want)
			}
		})
	}
}

func TestEscapeTimeReturnsEscapingIterate(t *testing.T) {
	_, zx, zy := EscapeTime(1, 1, 100, MinBailout)
	if zx*zx+zy*zy <= MinBailout {
		t.Errorf("returned iterate (%g, %g) is inside the bailout radius", zx, zy)
	}
}

func TestColorizerBanded(t *testing.T) {
	palette, err := PaletteByIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	c := Colorizer{Palette: palette, ColorScale: 1}

	if got := c.Color(10, 10, 0, 0); got != InSetColor {
		t.Errorf("in-set colour = %v", got)
	}
	if got := c.Color(5, 10, 100, 0); got != palette[128] {
		t.Errorf("Color(5, 10) = %v, want palette[128] %v", got, palette[128])
	}
	if got := c.Color(0, 0, 0, 0); got != palette[0] {
		t.Errorf("zero budget colour = %v, want palette[0]", got)
	}

	c.ColorScale = 4
	// 4 * 256 * 5 / 10 = 512 wraps to 0
	if got := c.Color(5, 10, 100, 0); got != palette[0] {
		t.Errorf("scaled colour = %v, want palette[0]", got)
	}
}

func TestColorizerSmoothIsContinuous(t *testing.T) {
	palette, err := PaletteByIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	c := Colorizer{Palette: palette, ColorScale: 1, Smooth: true}

	// Neighbouring points escape with different counts; the smooth colour should differ by far less than a band.
	n1, x1, y1 := EscapeTime(-0.75, 0.1, 1000, DefaultBailout)
	n2, x2, y2 := EscapeTime(-0.75, 0.1001, 1000, DefaultBailout)
	if n1 >= 1000 || n2 >= 1000 {
		t.Skip("sample points did not escape")
	}
	a := c.Color(n1, 1000, x1, y1)
	b := c.Color(n2, 1000, x2, y2)
	if a.A != 255 || b.A != 255 {
		t.Fatalf("smooth colours are not opaque: %v %v", a, b)
	}
	if diff := math.Abs(float64(a.R) - float64(b.R)); diff > 8 {
		t.Errorf("smooth colours jump by %g: %v %v", diff, a, b)
	}
}

func TestPalettes(t *testing.T) {
	if PaletteCount() != 6 {
		t.Fatalf("PaletteCount = %d", PaletteCount())
	}
	for i := 0; i < PaletteCount(); i++ {
		p, err := PaletteByIndex(i)
		if err != nil {
			t.Fatal(err)
		}
		for j, c := range p {
			if c.A != 255 {
				t.Fatalf("%s[%d] = %v is not opaque", PaletteName(i), j, c)
			}
		}
		idx, err := PaletteIndex(PaletteName(i))
		if err != nil || idx != i {
			t.Errorf("PaletteIndex(%q) = %d, %v", PaletteName(i), idx, err)
		}
	}

	gray, _ := PaletteByIndex(0)
	if gray[0] != (color.RGBA{A: 255}) || gray[255].R < 250 {
		t.Errorf("gray runs from %v to %v", gray[0], gray[255])
	}
	if _, err := PaletteByIndex(6); !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("PaletteByIndex(6) returned %v", err)
	}
	if _, err := PaletteIndex("sepia"); !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("PaletteIndex(sepia) returned %v", err)
	}
}

func TestSettingsVerify(t *testing.T) {
	s := Settings{Bailout: 1, ColorScale: -3, Colormap: 42, Height: -1, MaxIterations: -5, Scale: 0, Width: 0}
	if err := s.Verify(); err != nil {
		t.Fatal(err)
	}
	d := DefaultSettings()
	if s.Bailout != d.Bailout || s.ColorScale != d.ColorScale || s.Colormap != d.Colormap || s.Height != d.Height ||
		s.MaxIterations != d.MaxIterations || s.Scale != d.Scale || s.Width != d.Width {
		t.Errorf("Verify left %+v", s)
	}

	zero := Settings{MaxIterations: 0, Width: 4, Height: 4, Scale: 2, Bailout: 8, ColorScale: 1}
	if err := zero.Verify(); err != nil {
		t.Fatal(err)
	}
	if zero.MaxIterations != 0 || zero.Scale != 2 || zero.Bailout != 8 {
		t.Errorf("Verify changed valid values: %+v", zero)
	}
}
