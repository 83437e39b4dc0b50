// Package viewer is the interactive window around the engine: it turns keyboard and mouse input into engine calls and
// shows the framebuffer with a small status overlay.
package viewer

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"MandelbrotExplorer/backend"
	"MandelbrotExplorer/config"
	"MandelbrotExplorer/engine"
	"MandelbrotExplorer/export"
	"MandelbrotExplorer/mandelbrot"
	"MandelbrotExplorer/misc"
)

const help = `arrows/drag: move  wheel/+/-: zoom  pgup/pgdn: iterations
c: colormap  s: smooth  b: backend  a: auto iterations
r: reset  p: capture  h: help  esc: quit`

type Game struct {
	engine   *engine.Engine
	exporter *export.Exporter
	logger   bslogger.Logger
	settings config.ViewerSettings

	frame  *ebiten.Image
	pixels []byte

	dragging     bool
	dragStart    image.Point
	layoutHeight int
	layoutWidth  int
	moveX        float64
	moveY        float64
	showHelp     bool
}

func NewGame(e *engine.Engine, settings config.ViewerSettings, logger bslogger.Logger) *Game {
	width, height := e.Size()
	return &Game{
		engine:       e,
		exporter:     export.NewExporter(settings.CaptureDir, logger),
		logger:       logger,
		settings:     settings,
		layoutHeight: height,
		layoutWidth:  width,
	}
}

// Run opens the window and blocks until it is closed.
func Run(e *engine.Engine, settings config.ViewerSettings, logger bslogger.Logger) error {
	width, height := e.Size()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Mandelbrot Explorer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(NewGame(e, settings, logger))
	e.Close()
	if err == ebiten.Termination {
		return nil
	}
	return err
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	width, height := g.engine.Size()
	if g.layoutWidth != width || g.layoutHeight != height {
		if misc.CheckError(g.engine.Resize(g.layoutWidth, g.layoutHeight), g.logger, misc.Warning) {
			g.layoutWidth, g.layoutHeight = width, height
		}
	}

	g.pan()
	g.zoom()
	g.keys()

	misc.CheckError(g.engine.Render(g.settings.RenderAsync), g.logger, misc.Warning)
	return nil
}

// pan moves the view at MoveSpeed pixels per second while an arrow key is held and follows the cursor while the left
// button is dragged.
func (g *Game) pan() {
	step := g.settings.MoveSpeed / float64(ebiten.TPS())
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.moveX += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.moveX -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.moveY += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.moveY -= step
	}

	cursorX, cursorY := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.dragStart = image.Pt(cursorX, cursorY)
	} else if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging {
		g.moveX += float64(cursorX - g.dragStart.X)
		g.moveY += float64(cursorY - g.dragStart.Y)
		g.dragStart = image.Pt(cursorX, cursorY)
	}

	// keep the fractional part for the next tick so slow speeds still move
	dx, dy := math.Trunc(g.moveX), math.Trunc(g.moveY)
	g.moveX -= dx
	g.moveY -= dy
	g.engine.Move(int(dx), int(dy))
}

func (g *Game) zoom() {
	factor := 1.0
	_, wheel := ebiten.Wheel()
	switch {
	case wheel > 0:
		factor = 1 / g.settings.ScrollScale
	case wheel < 0:
		factor = g.settings.ScrollScale
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		factor = 1 / g.settings.ScrollScale
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		factor = g.settings.ScrollScale
	}
	if factor == 1 {
		return
	}

	scale := g.engine.Scale() * factor
	var err error
	if g.settings.ScaleToCursor && wheel != 0 {
		cursorX, cursorY := ebiten.CursorPosition()
		err = g.engine.SetScaleTo(scale, float64(cursorX), float64(cursorY))
	} else {
		err = g.engine.SetScale(scale)
	}
	if misc.CheckError(err, g.logger, misc.Warning) {
		return
	}
	if g.settings.AutoIter {
		misc.CheckError(g.engine.AutoIteration(g.settings.InitialIter), g.logger, misc.Warning)
	}
}

func (g *Game) keys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		misc.CheckError(g.engine.SetIteration(g.engine.Iteration()*2+1), g.logger, misc.Warning)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		misc.CheckError(g.engine.SetIteration(g.engine.Iteration()/2), g.logger, misc.Warning)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		next := (g.engine.Colormap() + 1) % mandelbrot.PaletteCount()
		misc.CheckError(g.engine.SetColormap(next), g.logger, misc.Warning)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.engine.SetColorSmooth(!g.engine.ColorSmooth())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		next := (g.engine.Backend() + 1) % (backend.Progressive + 1)
		misc.CheckError(g.engine.SetBackend(next), g.logger, misc.Warning)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.settings.AutoIter = !g.settings.AutoIter
		if g.settings.AutoIter {
			misc.CheckError(g.engine.AutoIteration(g.settings.InitialIter), g.logger, misc.Warning)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.ResetParameters()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.exporter.Save(g.engine.Snapshot())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	width, height := g.engine.Size()
	if g.frame == nil || g.frame.Bounds().Dx() != width || g.frame.Bounds().Dy() != height {
		g.frame = ebiten.NewImage(width, height)
		g.pixels = make([]byte, 4*width*height)
	}
	if !misc.CheckError(g.engine.CopyToRGBA(g.pixels), g.logger, misc.Warning) {
		g.frame.WritePixels(g.pixels)
	}
	screen.DrawImage(g.frame, nil)
	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	x, y := g.engine.Position()
	output := fmt.Sprintf("TPS: %0.1f\n", ebiten.ActualTPS())
	output += fmt.Sprintf("Center: (%0.15g, %0.15g)\n", x, y)
	output += fmt.Sprintf("Scale: %g\n", g.engine.Scale())
	output += fmt.Sprintf("Iterations: %d (auto %t)\n", g.engine.Iteration(), g.settings.AutoIter)
	output += fmt.Sprintf("Colormap: %s x%g smooth %t\n", mandelbrot.PaletteName(g.engine.Colormap()), g.engine.ColorScale(), g.engine.ColorSmooth())
	output += fmt.Sprintf("Backend: %s", g.engine.Backend())
	if g.engine.Backend() == backend.Progressive {
		output += fmt.Sprintf(" (%d/%d samples)", g.engine.SampleCount(), g.engine.BackendSettings().TotalSamples)
	}
	if g.engine.IsRendering() {
		output += " rendering..."
	}
	output += "\n"
	if notice := g.exporter.Notice(); notice.Visible(time.Now()) {
		output += notice.Message + "\n"
	}
	if g.showHelp {
		output += help + "\n"
	}
	return output
}

// Layout follows the window so the frame is always rendered at the window's pixel size.
func (g *Game) Layout(outsideWidth int, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.layoutWidth = outsideWidth
		g.layoutHeight = outsideHeight
	}
	return g.layoutWidth, g.layoutHeight
}
