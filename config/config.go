// Package config loads the explorer settings from a JSON or TOML file on top of built-in defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"

	"MandelbrotExplorer/backend"
	"MandelbrotExplorer/engine"
	"MandelbrotExplorer/mandelbrot"
	"MandelbrotExplorer/misc"
	"MandelbrotExplorer/task"
)

type ViewerSettings struct {
	AutoIter      bool    `koanf:"auto_iter"`
	CaptureDir    string  `koanf:"capture_dir"`
	InitialIter   int     `koanf:"initial_iter"`
	MoveSpeed     float64 `koanf:"move_speed"`
	RenderAsync   bool    `koanf:"render_async"`
	ScaleToCursor bool    `koanf:"scale_to_cursor"`
	ScrollScale   float64 `koanf:"scroll_scale"`
}

func DefaultViewerSettings() ViewerSettings {
	return ViewerSettings{
		CaptureDir:    ".",
		InitialIter:   100,
		MoveSpeed:     300,
		RenderAsync:   true,
		ScaleToCursor: true,
		ScrollScale:   1.1,
	}
}

func (s *ViewerSettings) Verify() error {
	defaults := DefaultViewerSettings()
	// AutoIter defaults to false already
	if s.CaptureDir == "" {
		s.CaptureDir = defaults.CaptureDir
	}
	if s.InitialIter < 0 {
		s.InitialIter = defaults.InitialIter
	}
	if !(s.MoveSpeed > 0) {
		s.MoveSpeed = defaults.MoveSpeed
	}
	if !(s.ScrollScale > 1) {
		s.ScrollScale = defaults.ScrollScale
	}
	return nil
}

type Settings struct {
	logger bslogger.Logger

	Backend    string `koanf:"backend"`
	Generation string `koanf:"generation"`

	Backends   backend.Settings    `koanf:"-"`
	Mandelbrot mandelbrot.Settings `koanf:"-"`
	Viewer     ViewerSettings      `koanf:"-"`
}

// defaults seeds koanf so that keys missing from the file, booleans included, keep their default value.
func defaults() map[string]interface{} {
	ms := mandelbrot.DefaultSettings()
	bs := backend.DefaultSettings()
	vs := DefaultViewerSettings()
	return map[string]interface{}{
		"backend":    backend.Parallel.String(),
		"generation": bs.Generation.String(),

		"bailout":     ms.Bailout,
		"center_x":    ms.CenterX,
		"center_y":    ms.CenterY,
		"color_scale": ms.ColorScale,
		"colormap":    ms.Colormap,
		"height":      ms.Height,
		"iterations":  ms.MaxIterations,
		"scale":       ms.Scale,
		"smooth":      ms.SmoothColoring,
		"width":       ms.Width,

		"block_size":         bs.BlockSize,
		"concurrency":        bs.Concurrency,
		"samples_per_launch": bs.SamplesPerLaunch,
		"seed":               bs.Seed,
		"task_size":          bs.TaskSize,
		"total_samples":      bs.TotalSamples,

		"auto_iter":       vs.AutoIter,
		"capture_dir":     vs.CaptureDir,
		"initial_iter":    vs.InitialIter,
		"move_speed":      vs.MoveSpeed,
		"render_async":    vs.RenderAsync,
		"scale_to_cursor": vs.ScaleToCursor,
		"scroll_scale":    vs.ScrollScale,
	}
}

// Load reads the settings file at path over the defaults. An empty path yields the defaults. The format follows the
// extension: .json or .toml.
func Load(path string) (Settings, error) {
	s := Settings{logger: bslogger.NewLogger("Settings", bslogger.Normal, nil)}
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return s, err
	}
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return s, fmt.Errorf("unknown settings format %q", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return s, fmt.Errorf("unable to load settings %s - %w", path, err)
		}
	}

	for _, target := range []interface{}{&s, &s.Mandelbrot, &s.Backends, &s.Viewer} {
		if err := k.Unmarshal("", target); err != nil {
			return s, err
		}
	}
	misc.CheckError(s.Verify(), s.logger, misc.Warning)
	s.logger.Debug(s.String())
	return s, nil
}

func (s *Settings) String() string {
	output := "\nExplorer settings\n"
	output += fmt.Sprintf("Backend: %s\n", s.Backend)
	output += s.Mandelbrot.String()
	output += s.Backends.String()
	return output
}

// Verify replaces out of range values with defaults. Problems are returned after every value has been fixed.
func (s *Settings) Verify() error {
	var problems []string

	if _, err := backend.ParseKind(s.Backend); err != nil {
		problems = append(problems, err.Error())
		s.Backend = backend.Parallel.String()
	}
	generation, err := task.ParseGeneration(s.Generation)
	if err != nil {
		problems = append(problems, err.Error())
		generation = task.Block
	}
	s.Generation = generation.String()
	s.Backends.Generation = generation

	for _, verify := range []func() error{s.Mandelbrot.Verify, s.Backends.Verify, s.Viewer.Verify} {
		if err := verify(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("settings adjusted: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Engine returns the part of the settings the render engine is built from.
func (s *Settings) Engine() engine.Settings {
	kind, err := backend.ParseKind(s.Backend)
	if err != nil {
		kind = backend.Parallel
	}
	return engine.Settings{
		Mandelbrot: s.Mandelbrot,
		Backend:    kind,
		Backends:   s.Backends,
	}
}
