package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/alexflint/go-arg"
	"github.com/pkg/profile"

	"MandelbrotExplorer/backend"
	"MandelbrotExplorer/config"
	"MandelbrotExplorer/engine"
	"MandelbrotExplorer/export"
	"MandelbrotExplorer/mandelbrot"
	"MandelbrotExplorer/misc"
	"MandelbrotExplorer/viewer"
)

// renderCommand overrides the settings file for a single headless frame. Unset flags keep the file's values.
type renderCommand struct {
	Out        string   `arg:"-o,--out" help:"output file (.png or .bmp), defaults to a timestamped png in capture_dir"`
	Width      *int     `arg:"--width" help:"frame width in pixels"`
	Height     *int     `arg:"--height" help:"frame height in pixels"`
	CenterX    *float64 `arg:"-x,--center-x" help:"real part of the frame centre"`
	CenterY    *float64 `arg:"-y,--center-y" help:"imaginary part of the frame centre"`
	Scale      *float64 `arg:"-s,--scale" help:"half the visible height of the plane"`
	Iterations *int     `arg:"-i,--iterations" help:"maximum iterations per point"`
	Backend    *string  `arg:"-b,--backend" help:"serial, parallel or progressive"`
	Colormap   *string  `arg:"--colormap" help:"gray, ultra, viridis, magma, inferno or turbo"`
	Smooth     *bool    `arg:"--smooth" help:"smooth colouring"`
}

type exploreCommand struct{}

type arguments struct {
	Config  string          `arg:"-c,--config" help:"settings file (.json or .toml)"`
	Profile string          `arg:"--profile" help:"write a CPU profile into this directory"`
	Render  *renderCommand  `arg:"subcommand:render" help:"render one frame to an image file"`
	Explore *exploreCommand `arg:"subcommand:explore" help:"open the interactive explorer"`
}

func (arguments) Description() string {
	return "Mandelbrot explorer with incremental rendering"
}

func main() {
	var args arguments
	parser := arg.MustParse(&args)
	if args.Render == nil && args.Explore == nil {
		parser.Fail("missing subcommand: render or explore")
	}

	logger := bslogger.NewLogger("Main", bslogger.Normal, nil)
	misc.CheckError(run(args, logger), logger, misc.Fatal)
}

func run(args arguments, logger bslogger.Logger) error {
	if args.Profile != "" {
		if !misc.IsDirectory(args.Profile) {
			return fmt.Errorf("profile directory %s does not exist", args.Profile)
		}
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(args.Profile), profile.Quiet).Stop()
	}

	settings, err := config.Load(args.Config)
	if err != nil {
		return err
	}

	if args.Render != nil {
		return render(args.Render, settings, logger)
	}
	e, err := engine.New(settings.Engine(), logger)
	if err != nil {
		return err
	}
	return viewer.Run(e, settings.Viewer, logger)
}

func render(cmd *renderCommand, settings config.Settings, logger bslogger.Logger) error {
	if err := cmd.apply(&settings); err != nil {
		return err
	}
	misc.CheckError(settings.Verify(), logger, misc.Warning)

	e, err := engine.New(settings.Engine(), logger)
	if err != nil {
		return err
	}
	defer e.Close()

	startTime := time.Now()
	if err := e.Render(false); err != nil {
		return err
	}
	width, height := e.Size()
	logger.Infof("Rendered %dx%d with the %s backend in %s", width, height, e.Backend(), time.Since(startTime))

	out := cmd.Out
	if out == "" {
		out = filepath.Join(settings.Viewer.CaptureDir, export.CaptureName(time.Now()))
	}
	if err := export.Capture(e.Snapshot(), out); err != nil {
		return err
	}
	logger.Infof("Saved image to %s", out)
	return nil
}

func (cmd *renderCommand) apply(settings *config.Settings) error {
	ms := &settings.Mandelbrot
	if cmd.Width != nil {
		ms.Width = *cmd.Width
	}
	if cmd.Height != nil {
		ms.Height = *cmd.Height
	}
	if cmd.CenterX != nil {
		ms.CenterX = *cmd.CenterX
	}
	if cmd.CenterY != nil {
		ms.CenterY = *cmd.CenterY
	}
	if cmd.Scale != nil {
		ms.Scale = *cmd.Scale
	}
	if cmd.Iterations != nil {
		ms.MaxIterations = *cmd.Iterations
	}
	if cmd.Smooth != nil {
		ms.SmoothColoring = *cmd.Smooth
	}
	if cmd.Colormap != nil {
		colormap, err := mandelbrot.PaletteIndex(*cmd.Colormap)
		if err != nil {
			return err
		}
		ms.Colormap = colormap
	}
	if cmd.Backend != nil {
		kind, err := backend.ParseKind(*cmd.Backend)
		if err != nil {
			return err
		}
		settings.Backend = kind.String()
	}
	return nil
}
