package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"MandelbrotExplorer/backend"
	"MandelbrotExplorer/task"
)

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Mandelbrot.Width != 1280 || s.Mandelbrot.Height != 720 || s.Mandelbrot.MaxIterations != 100 {
		t.Errorf("frame defaults = %+v", s.Mandelbrot)
	}
	if !s.Mandelbrot.SmoothColoring || s.Mandelbrot.Colormap != 1 || s.Mandelbrot.ColorScale != 4 || s.Mandelbrot.Scale != 1 {
		t.Errorf("colour defaults = %+v", s.Mandelbrot)
	}
	if !s.Viewer.RenderAsync || !s.Viewer.ScaleToCursor || s.Viewer.MoveSpeed != 300 || s.Viewer.ScrollScale != 1.1 {
		t.Errorf("viewer defaults = %+v", s.Viewer)
	}
	if s.Backends.Concurrency != runtime.NumCPU() || s.Backends.Generation != task.Block || s.Backends.TotalSamples != backend.DefaultTotalSamples {
		t.Errorf("backend defaults = %+v", s.Backends)
	}
	if s.Engine().Backend != backend.Parallel {
		t.Errorf("default backend = %s", s.Engine().Backend)
	}
}

func TestLoadToml(t *testing.T) {
	path := writeFile(t, "explorer.toml", `
backend = "serial"
generation = "row"
width = 320
height = 200
center_x = -0.75
iterations = 250
smooth = false
colormap = 3
block_size = 3
total_samples = 16
render_async = false
scroll_scale = 0.5
`)
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	ms := s.Mandelbrot
	if ms.Width != 320 || ms.Height != 200 || ms.CenterX != -0.75 || ms.MaxIterations != 250 || ms.SmoothColoring || ms.Colormap != 3 {
		t.Errorf("mandelbrot settings = %+v", ms)
	}
	if s.Engine().Backend != backend.Serial || s.Backends.Generation != task.Row {
		t.Errorf("backend = %s, generation = %s", s.Engine().Backend, s.Backends.Generation)
	}
	// invalid values fall back to their defaults
	if s.Backends.BlockSize != 1 || s.Backends.TotalSamples != 16 || s.Viewer.ScrollScale != 1.1 {
		t.Errorf("backend settings = %+v, scroll scale = %g", s.Backends, s.Viewer.ScrollScale)
	}
	if s.Viewer.RenderAsync {
		t.Error("render_async = false was ignored")
	}
	if s.Engine().Mandelbrot.Width != 320 {
		t.Errorf("engine settings = %+v", s.Engine())
	}
}

func TestLoadJson(t *testing.T) {
	path := writeFile(t, "explorer.json", `{"backend": "cuda", "scale": -2, "colormap": 42, "capture_dir": "captures", "auto_iter": true}`)
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Backend != backend.Parallel.String() || s.Mandelbrot.Scale != 1 || s.Mandelbrot.Colormap != 1 {
		t.Errorf("settings were not corrected: %q %g %d", s.Backend, s.Mandelbrot.Scale, s.Mandelbrot.Colormap)
	}
	if s.Viewer.CaptureDir != "captures" || !s.Viewer.AutoIter {
		t.Errorf("viewer settings = %+v", s.Viewer)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	if _, err := Load(writeFile(t, "explorer.yaml", "width: 3")); err == nil {
		t.Error("Load of an unknown format succeeded")
	}
	if _, err := Load(writeFile(t, "broken.json", "{")); err == nil {
		t.Error("Load of broken JSON succeeded")
	}
}
