// Package engine composes the viewport, pixel cache, framebuffer, backends and pass controller into the incremental
// renderer the host drives.
//
// Every mutator stops the running pass before it touches any state, so the cache and framebuffer only ever have one
// writer: the host goroutine during a mutation, or the single render pass in between. An Engine is meant to be driven
// from one goroutine; only IsRendering may be called while another goroutine is inside a mutator.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotExplorer/backend"
	"MandelbrotExplorer/cache"
	"MandelbrotExplorer/controller"
	"MandelbrotExplorer/framebuffer"
	"MandelbrotExplorer/mandelbrot"
	"MandelbrotExplorer/misc"
	"MandelbrotExplorer/viewport"
)

// ResetIterations is the iteration count ResetParameters restores.
const ResetIterations = 32

var (
	ErrInvalidIterations = errors.New("iteration count must not be negative")
	ErrInvalidColorScale = errors.New("color scale must be a positive finite number")
	ErrInvalidBailout    = fmt.Errorf("bailout must be a finite number of at least %g", mandelbrot.MinBailout)
	ErrInvalidBlockSize  = errors.New("block size must be one of 1, 2, 4, 8, 16")
)

type Settings struct {
	Mandelbrot mandelbrot.Settings
	Backend    backend.Kind
	Backends   backend.Settings
}

func DefaultSettings() Settings {
	return Settings{
		Mandelbrot: mandelbrot.DefaultSettings(),
		Backend:    backend.Parallel,
		Backends:   backend.DefaultSettings(),
	}
}

type Engine struct {
	logger bslogger.Logger

	backend         backend.Backend
	backendSettings backend.Settings
	cache           *cache.Cache
	controller      *controller.Controller
	framebuffer     *framebuffer.Framebuffer
	viewport        viewport.Viewport

	bailout    float64
	colormap   int
	colorScale float64
	dirty      bool
	iterations int
	smooth     bool
}

// New builds an engine from settings. Out of range values are replaced with defaults.
func New(settings Settings, logger bslogger.Logger) (*Engine, error) {
	if err := settings.Mandelbrot.Verify(); err != nil {
		return nil, err
	}
	if err := settings.Backends.Verify(); err != nil {
		logger.Warning(err.Error())
	}
	ms := settings.Mandelbrot

	e := Engine{
		logger:          logger,
		backendSettings: settings.Backends,
		controller:      controller.New(logger),
		bailout:         ms.Bailout,
		colormap:        ms.Colormap,
		colorScale:      ms.ColorScale,
		dirty:           true,
		iterations:      ms.MaxIterations,
		smooth:          ms.SmoothColoring,
	}

	var err error
	if e.viewport, err = viewport.New(ms.Width, ms.Height); err != nil {
		return nil, err
	}
	if err = e.viewport.SetPosition(ms.CenterX, ms.CenterY); err != nil {
		return nil, err
	}
	if err = e.viewport.SetScale(ms.Scale); err != nil {
		return nil, err
	}
	if e.cache, err = cache.New(ms.Width, ms.Height); err != nil {
		return nil, err
	}
	if e.framebuffer, err = framebuffer.New(ms.Width, ms.Height); err != nil {
		return nil, err
	}
	if e.backend, err = backend.New(settings.Backend, e.backendSettings, logger); err != nil {
		return nil, err
	}

	logger.Debugf("Engine ready: %s with the %s backend", e.viewport.String(), e.backend.Kind())
	return &e, nil
}

// stop interrupts the running pass. An interrupted pass leaves work behind, so the frame stays dirty.
func (e *Engine) stop() {
	if e.controller.Stop() {
		e.dirty = true
	}
}

// invalidate marks every pixel unrendered.
func (e *Engine) invalidate() {
	e.cache.Reset(cache.Record{})
	e.dirty = true
}

func (e *Engine) SetPosition(x float64, y float64) error {
	v := e.viewport
	if err := v.SetPosition(x, y); err != nil {
		return err
	}
	e.stop()
	e.viewport = v
	e.invalidate()
	return nil
}

// Move pans the view so the current image travels by (dpx, dpy) pixels. Only the strips that scroll in are recomputed.
func (e *Engine) Move(dpx int, dpy int) {
	if dpx == 0 && dpy == 0 {
		return
	}
	e.stop()
	e.viewport.Move(dpx, dpy)
	e.cache.Shift(dpx, dpy)
	e.framebuffer.Shift(dpx, dpy)
	e.dirty = true
}

// SetScale zooms about the centre of the frame.
func (e *Engine) SetScale(scale float64) error {
	return e.zoom(scale, 0.5, 0.5, func(v *viewport.Viewport) error {
		return v.SetScale(scale)
	})
}

// SetScaleTo zooms while keeping the point under pixel (px, py) in place.
func (e *Engine) SetScaleTo(scale float64, px float64, py float64) error {
	ax := px / float64(e.viewport.Width)
	ay := py / float64(e.viewport.Height)
	return e.zoom(scale, ax, ay, func(v *viewport.Viewport) error {
		return v.SetScaleTo(scale, px, py)
	})
}

// zoom applies a scale change, stretches the old image into place as a preview and marks every pixel for recompute.
func (e *Engine) zoom(scale float64, ax float64, ay float64, apply func(v *viewport.Viewport) error) error {
	v := e.viewport
	if err := apply(&v); err != nil {
		return err
	}
	e.stop()
	mag := e.viewport.Scale / scale
	e.viewport = v
	e.framebuffer.Zoom(mag, ax, ay)
	e.invalidate()
	return nil
}

func (e *Engine) SetIteration(iterations int) error {
	if iterations < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}
	e.stop()
	e.iterations = iterations
	e.invalidate()
	return nil
}

// AutoIteration derives the iteration count from the zoom depth, growing with the log of the magnification.
func (e *Engine) AutoIteration(initial int) error {
	if initial < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, initial)
	}
	iterations := AutoIterations(initial, e.viewport.Scale)
	if iterations == e.iterations {
		return nil
	}
	return e.SetIteration(iterations)
}

// AutoIterations is initial * (ln(1/scale + 1) - ln 2 + 1); it equals initial at scale 1.
func AutoIterations(initial int, scale float64) int {
	magnification := 1 / scale
	// ln(m + 1) - ln 2 folded into one log so scale 1 gives exactly initial
	iterations := float64(initial) * (math.Log((magnification+1)/2) + 1)
	if !(iterations > 0) {
		return 0
	}
	if iterations > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(iterations)
}

func (e *Engine) SetColormap(colormap int) error {
	if _, err := mandelbrot.PaletteByIndex(colormap); err != nil {
		return err
	}
	e.stop()
	e.colormap = colormap
	e.invalidate()
	return nil
}

func (e *Engine) SetColorScale(colorScale float64) error {
	if !(colorScale > 0) || math.IsInf(colorScale, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidColorScale, colorScale)
	}
	e.stop()
	e.colorScale = colorScale
	e.invalidate()
	return nil
}

func (e *Engine) SetColorSmooth(smooth bool) {
	e.stop()
	e.smooth = smooth
	e.invalidate()
}

func (e *Engine) SetBailout(bailout float64) error {
	if !(bailout >= mandelbrot.MinBailout) || math.IsInf(bailout, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidBailout, bailout)
	}
	e.stop()
	e.bailout = bailout
	e.invalidate()
	return nil
}

// Resize reallocates the cache and framebuffer for a new frame size. If the allocation fails the engine keeps its old
// buffers and viewport.
func (e *Engine) Resize(width int, height int) error {
	v := e.viewport
	if err := v.Resize(width, height); err != nil {
		return err
	}
	c, err := cache.New(width, height)
	if err != nil {
		return err
	}
	fb, err := framebuffer.New(width, height)
	if err != nil {
		return err
	}

	e.stop()
	e.viewport = v
	e.cache = c
	e.framebuffer = fb
	e.dirty = true
	e.logger.Debugf("Resized to %dx%d", width, height)
	return nil
}

// SetBackend switches the compute strategy. The view and colouring are kept but every pixel is recomputed.
func (e *Engine) SetBackend(kind backend.Kind) error {
	b, err := backend.New(kind, e.backendSettings, e.logger)
	if err != nil {
		return err
	}
	e.stop()
	e.backend = b
	e.invalidate()
	e.logger.Infof("Switched to the %s backend", kind)
	return nil
}

// SetConcurrency sets the worker count of the pooled backends and returns the value applied.
func (e *Engine) SetConcurrency(workers int) int {
	e.stop()
	e.backendSettings.Concurrency = backend.ClampConcurrency(workers)
	e.backend.Configure(e.backendSettings)
	return e.backendSettings.Concurrency
}

// SetTotalSamples sets how many samples the progressive backend gathers per pixel and returns the value applied.
// Raising it refines the current image rather than restarting it.
func (e *Engine) SetTotalSamples(total int) int {
	e.stop()
	settings := e.backendSettings
	settings.TotalSamples = total
	misc.CheckError(settings.Verify(), e.logger, misc.Warning)
	e.backendSettings = settings
	e.backend.Configure(settings)
	e.dirty = true
	return settings.TotalSamples
}

// SetSamplesPerLaunch sets how many samples one progressive launch adds and returns the value applied.
func (e *Engine) SetSamplesPerLaunch(samples int) int {
	e.stop()
	settings := e.backendSettings
	settings.SamplesPerLaunch = samples
	misc.CheckError(settings.Verify(), e.logger, misc.Warning)
	e.backendSettings = settings
	e.backend.Configure(settings)
	e.dirty = true
	return settings.SamplesPerLaunch
}

func (e *Engine) SetBlockSize(blockSize int) error {
	if !backend.ValidBlockSize(blockSize) {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	e.stop()
	e.backendSettings.BlockSize = blockSize
	e.backend.Configure(e.backendSettings)
	return nil
}

// ResetParameters returns to the initial view: centred on the origin at scale 1 with ResetIterations iterations.
func (e *Engine) ResetParameters() {
	e.stop()
	_ = e.viewport.SetPosition(0, 0)
	_ = e.viewport.SetScale(1)
	e.iterations = ResetIterations
	e.framebuffer.Clear()
	e.invalidate()
}

// Close stops any running pass.
func (e *Engine) Close() {
	e.stop()
}
