// Package backend holds the interchangeable strategies that fill the unrendered pixels of a frame.
package backend

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotExplorer/cache"
	"MandelbrotExplorer/framebuffer"
	"MandelbrotExplorer/mandelbrot"
	"MandelbrotExplorer/misc"
	"MandelbrotExplorer/viewport"
)

const (
	Serial Kind = iota
	Parallel
	Progressive
)

var ErrUnknownKind = errors.New("unknown backend")

type Kind int

func (k Kind) String() string {
	if k < Serial || k > Progressive {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return []string{
		"Serial", "Parallel", "Progressive",
	}[k]
}

func ParseKind(name string) (Kind, error) {
	for k := Serial; k <= Progressive; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return Serial, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Job is everything one pass needs. The viewport and colouring parameters are copies; Cache and Surface are written in
// place and must not be touched by anyone else until the pass returns.
type Job struct {
	Viewport   viewport.Viewport
	Iterations int
	Bailout    float64
	Colorizer  mandelbrot.Colorizer
	Cache      *cache.Cache
	Surface    *framebuffer.Surface
}

type Result struct {
	// Completed is false when the pass stopped because its context was cancelled.
	Completed bool
	// Pixels counts the pixels written during the pass.
	Pixels int
}

type Backend interface {
	Kind() Kind
	// Render fills every pixel whose record is not Done. It polls ctx and returns early once it is cancelled.
	Render(ctx context.Context, job *Job) Result
	// Done reports whether a cache record needs no more work from this backend.
	Done(record cache.Record) bool
	// Configure applies new settings. It must not be called while Render is running.
	Configure(settings Settings)
}

// New builds the backend of the given kind.
func New(kind Kind, settings Settings, logger bslogger.Logger) (Backend, error) {
	misc.CheckError(settings.Verify(), logger, misc.Warning)
	switch kind {
	case Serial:
		return &serial{logger: logger}, nil
	case Parallel:
		return &parallel{logger: logger, settings: settings}, nil
	case Progressive:
		return &progressive{logger: logger, settings: settings}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// shade evaluates the fractal at pixel coordinate (px, py) and colours it.
func (j *Job) shade(px float64, py float64) color.RGBA {
	c := j.Viewport.PixelToComplex(px, py)
	n, zx, zy := mandelbrot.EscapeTime(real(c), imag(c), j.Iterations, j.Bailout)
	return j.Colorizer.Color(n, j.Iterations, zx, zy)
}

// renderRect computes every unrendered pixel of r at its centre and returns how many were written.
func (j *Job) renderRect(r image.Rectangle) int {
	written := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		records := j.Cache.Row(y)
		pixels := j.Surface.Row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			if records[x].Rendered {
				continue
			}
			pixels[x] = misc.PackARGB(j.shade(float64(x)+0.5, float64(y)+0.5))
			records[x].Rendered = true
			written++
		}
	}
	return written
}

func rendered(record cache.Record) bool {
	return record.Rendered
}
