package engine

import (
	"context"
	"image"

	"MandelbrotExplorer/backend"
	"MandelbrotExplorer/mandelbrot"
	"MandelbrotExplorer/misc"
)

// Render computes the pixels still missing from the frame, on the calling goroutine or, when async is set, on a
// background pass. It does nothing when no state changed since the last complete pass.
func (e *Engine) Render(async bool) error {
	if !e.dirty {
		return nil
	}

	job := e.job()
	b := e.backend
	pass := func(ctx context.Context) bool {
		return b.Render(ctx, job).Completed
	}

	e.dirty = false
	if async {
		if err := e.controller.Start(pass); err != nil {
			e.dirty = true
			return err
		}
		return nil
	}

	completed, err := e.controller.Run(pass)
	if err != nil || !completed {
		e.dirty = true
	}
	return err
}

// Stop interrupts the running pass and reports whether one was cut short. No pixel is written after it returns.
func (e *Engine) Stop() bool {
	interrupted := e.controller.Stop()
	if interrupted {
		e.dirty = true
	}
	return interrupted
}

// Wait blocks until the running pass finishes by itself.
func (e *Engine) Wait() bool {
	completed := e.controller.Wait()
	if !completed {
		e.dirty = true
	}
	return completed
}

func (e *Engine) job() *backend.Job {
	palette, err := mandelbrot.PaletteByIndex(e.colormap)
	misc.CheckError(err, e.logger, misc.Error)
	return &backend.Job{
		Viewport:   e.viewport,
		Iterations: e.iterations,
		Bailout:    e.bailout,
		Colorizer: mandelbrot.Colorizer{
			Palette:    palette,
			ColorScale: e.colorScale,
			Smooth:     e.smooth,
		},
		Cache:   e.cache,
		Surface: e.framebuffer.Primary(),
	}
}

// IsRendering reports whether a pass is running. It never blocks.
func (e *Engine) IsRendering() bool {
	return e.controller.IsRunning()
}

func (e *Engine) Position() (float64, float64) {
	return e.viewport.CenterX, e.viewport.CenterY
}

func (e *Engine) Scale() float64 {
	return e.viewport.Scale
}

func (e *Engine) Iteration() int {
	return e.iterations
}

func (e *Engine) Bailout() float64 {
	return e.bailout
}

func (e *Engine) Colormap() int {
	return e.colormap
}

func (e *Engine) ColorScale() float64 {
	return e.colorScale
}

func (e *Engine) ColorSmooth() bool {
	return e.smooth
}

func (e *Engine) Backend() backend.Kind {
	return e.backend.Kind()
}

func (e *Engine) BackendSettings() backend.Settings {
	return e.backendSettings
}

func (e *Engine) Size() (int, int) {
	return e.viewport.Width, e.viewport.Height
}

// PixelToComplex maps a pixel coordinate to the plane with the mapping the backends use.
func (e *Engine) PixelToComplex(px float64, py float64) complex128 {
	return e.viewport.PixelToComplex(px, py)
}

// SampleCount is the lowest per-pixel sample count reached by the progressive backend, or 0 for the other backends.
func (e *Engine) SampleCount() int {
	if sampler, ok := e.backend.(interface{ SampleCount() int }); ok {
		return sampler.SampleCount()
	}
	return 0
}

// Framebuffer returns the displayed image. It may be read while a pass runs, at the cost of seeing a partial frame.
func (e *Engine) Framebuffer() image.Image {
	return e.framebuffer.Primary()
}

func (e *Engine) Snapshot() *image.RGBA {
	return e.framebuffer.Primary().Snapshot()
}

// CopyTo copies the packed ARGB pixels into dst, which must hold exactly width*height entries.
func (e *Engine) CopyTo(dst []uint32) error {
	return e.framebuffer.Primary().CopyTo(dst)
}

// CopyToRGBA copies the pixels into dst as red, green, blue, alpha bytes. dst must hold exactly 4*width*height bytes.
func (e *Engine) CopyToRGBA(dst []byte) error {
	return e.framebuffer.Primary().CopyToRGBA(dst)
}

// Pending counts the pixels the current backend still has to work on. Call it only while no pass is running.
func (e *Engine) Pending() int {
	return e.cache.Pending(e.backend.Done)
}

// Passes returns how many compute passes have been dispatched.
func (e *Engine) Passes() int {
	return e.controller.Passes()
}

// Dirty reports whether the next Render has work to do.
func (e *Engine) Dirty() bool {
	return e.dirty
}
