// Package viewport maps pixels of the output buffer to points on the complex plane.
//
// The visible region spans 4*Scale units vertically and 4*Scale*Aspect units horizontally, centred on
// (CenterX, CenterY). Pixel (0, 0) is the top left corner and the imaginary axis grows upwards.
package viewport

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidScale    = errors.New("scale must be a positive finite number")
	ErrInvalidSize     = errors.New("viewport dimensions must be positive")
	ErrInvalidPosition = errors.New("position must be finite")
)

type Viewport struct {
	CenterX float64
	CenterY float64
	Scale   float64
	Aspect  float64
	Width   int
	Height  int
}

// New returns a viewport of the given pixel size centred on the origin at scale 1.
func New(width int, height int) (Viewport, error) {
	v := Viewport{Scale: 1}
	if err := v.Resize(width, height); err != nil {
		return Viewport{}, err
	}
	return v, nil
}

func (v *Viewport) String() string {
	return fmt.Sprintf("{Viewport Center: (%g, %g) Scale: %g Size: %dx%d}", v.CenterX, v.CenterY, v.Scale, v.Width, v.Height)
}

// Step returns the size of one pixel in plane units along each axis.
func (v *Viewport) Step() (float64, float64) {
	dx := 4 * v.Scale * v.Aspect / float64(v.Width)
	dy := 4 * v.Scale / float64(v.Height)
	return dx, dy
}

// PixelToComplex returns the point on the plane under pixel coordinate (px, py). Pixel centres sit at half offsets.
func (v *Viewport) PixelToComplex(px float64, py float64) complex128 {
	minX := v.CenterX - 2*v.Scale*v.Aspect
	maxY := v.CenterY + 2*v.Scale
	dx, dy := v.Step()
	return complex(minX+px*dx, maxY-py*dy)
}

// ComplexToPixel is the inverse of PixelToComplex.
func (v *Viewport) ComplexToPixel(c complex128) (float64, float64) {
	minX := v.CenterX - 2*v.Scale*v.Aspect
	maxY := v.CenterY + 2*v.Scale
	dx, dy := v.Step()
	return (real(c) - minX) / dx, (maxY - imag(c)) / dy
}

func (v *Viewport) SetPosition(x float64, y float64) error {
	if err := checkPoint(x, y); err != nil {
		return err
	}
	v.CenterX = x
	v.CenterY = y
	return nil
}

// Move pans the view so the image content travels by (dpx, dpy) pixels.
func (v *Viewport) Move(dpx int, dpy int) {
	dx, dy := v.Step()
	v.CenterX -= dx * float64(dpx)
	v.CenterY += dy * float64(dpy)
}

func (v *Viewport) SetScale(scale float64) error {
	if err := checkScale(scale); err != nil {
		return err
	}
	v.Scale = scale
	return nil
}

// SetScaleTo changes the scale while keeping the point under pixel (px, py) fixed on screen.
func (v *Viewport) SetScaleTo(scale float64, px float64, py float64) error {
	if err := checkScale(scale); err != nil {
		return err
	}
	if err := checkPoint(px, py); err != nil {
		return err
	}
	point := v.PixelToComplex(px, py)
	v.Scale = scale

	dx, dy := v.Step()
	v.CenterX = real(point) + 2*scale*v.Aspect - px*dx
	v.CenterY = imag(point) - 2*scale + py*dy
	return nil
}

func (v *Viewport) Resize(width int, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	v.Width = width
	v.Height = height
	v.Aspect = float64(width) / float64(height)
	return nil
}

func checkPoint(x float64, y float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: (%g, %g)", ErrInvalidPosition, x, y)
	}
	return nil
}

func checkScale(scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidScale, scale)
	}
	return nil
}
