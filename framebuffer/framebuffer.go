// Package framebuffer owns the colour buffers the fractal is drawn into: the primary surface that is displayed and a
// staging surface used to produce an approximate zoomed image before the pixels are recomputed.
package framebuffer

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// maxMagnification caps how far a zoom blit stretches the old image; beyond it the result would be a handful of
// giant blocks, so the frame is cleared instead.
const maxMagnification = 1 << 16

type Framebuffer struct {
	primary *Surface
	staging *Surface
}

func New(width int, height int) (*Framebuffer, error) {
	primary, err := NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	staging, err := NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	return &Framebuffer{primary: primary, staging: staging}, nil
}

// Primary returns the displayed surface. The pointer changes after Rescale and Resize.
func (f *Framebuffer) Primary() *Surface {
	return f.primary
}

func (f *Framebuffer) Width() int {
	return f.primary.Width()
}

func (f *Framebuffer) Height() int {
	return f.primary.Height()
}

// Resize replaces both surfaces. Nothing changes when the allocation fails.
func (f *Framebuffer) Resize(width int, height int) error {
	resized, err := New(width, height)
	if err != nil {
		return err
	}
	*f = *resized
	return nil
}

func (f *Framebuffer) Clear() {
	f.primary.Clear()
}

// Shift moves the displayed image by (dpx, dpy) pixels and clears what scrolled in.
func (f *Framebuffer) Shift(dpx int, dpy int) {
	f.primary.Shift(dpx, dpy)
}

// ZoomRect returns where the current image lands after the scale changes by mag = oldScale/newScale. (ax, ay) is the
// anchor as a fraction of the frame: (0.5, 0.5) zooms about the centre, (px/width, py/height) about a cursor.
func ZoomRect(width int, height int, mag float64, ax float64, ay float64) image.Rectangle {
	w := int(float64(width) * (1 - mag))
	h := int(float64(height) * (1 - mag))
	x := int(float64(w) * ax)
	y := int(float64(h) * ay)
	return image.Rect(x, y, x+width-w, y+height-h)
}

// Zoom rescales the displayed image for a scale change by mag = oldScale/newScale about the anchor (ax, ay).
func (f *Framebuffer) Zoom(mag float64, ax float64, ay float64) {
	if !(mag > 0) || mag > maxMagnification || math.IsInf(mag, 0) {
		f.staging.Clear()
		f.swap()
		return
	}
	f.Rescale(ZoomRect(f.Width(), f.Height(), mag, ax, ay))
}

// Rescale resamples the whole primary image into dst on the staging surface with nearest-neighbour sampling, clears
// every staging pixel outside dst and then swaps the two surfaces.
func (f *Framebuffer) Rescale(dst image.Rectangle) {
	f.staging.Clear()
	if !dst.Empty() && dst.Overlaps(f.staging.Bounds()) {
		xdraw.NearestNeighbor.Scale(f.staging, dst, f.primary, f.primary.Bounds(), xdraw.Src, nil)
	}
	f.swap()
}

func (f *Framebuffer) swap() {
	f.primary, f.staging = f.staging, f.primary
}
