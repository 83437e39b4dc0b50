// Package export writes captures of the framebuffer to lossless image files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
	"golang.org/x/image/bmp"

	"MandelbrotExplorer/misc"
)

const (
	// NoticeDuration is how long a failed capture stays on screen.
	NoticeDuration = 3 * time.Second
	captureLayout  = "2006-01-02-15-04-05"
)

var ErrUnsupportedFormat = errors.New("unsupported capture format")

type encoder func(w io.Writer, img image.Image) error

var encoders = map[string]encoder{
	".png": png.Encode,
	".bmp": bmp.Encode,
}

// CaptureName returns the file name a capture taken at t is saved under.
func CaptureName(t time.Time) string {
	return t.Format(captureLayout) + ".png"
}

// Capture writes img to path as a three channel image. The format follows the extension: .png or .bmp. The directory
// must already exist. A failed write leaves no file behind.
func Capture(img image.Image, path string) error {
	encode, ok := encoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	file, err := misc.CreateFile(path)
	if err != nil {
		return err
	}
	return misc.CloseFile(file, encode(file, opaque(img)))
}

// opaque copies img into an RGBA image with every alpha set to 255. The encoders write an opaque RGBA image with three
// channels per pixel.
func opaque(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgb := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			c.A = 255
			rgb.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, c)
		}
	}
	return rgb
}

// Notice is a message shown to the user for a limited time.
type Notice struct {
	Message  string
	Posted   time.Time
	Duration time.Duration
}

func (n Notice) Visible(now time.Time) bool {
	if n.Message == "" {
		return false
	}
	return now.Before(n.Posted.Add(n.Duration))
}

// Exporter saves captures into a directory and turns failures into a Notice instead of aborting.
type Exporter struct {
	directory string
	logger    bslogger.Logger
	notice    Notice
	now       func() time.Time
}

func NewExporter(directory string, logger bslogger.Logger) *Exporter {
	return &Exporter{
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

// Save writes img under a timestamped name and returns the path and whether the write succeeded.
func (e *Exporter) Save(img image.Image) (string, bool) {
	now := e.now()
	path := filepath.Join(e.directory, CaptureName(now))
	if misc.CheckError(Capture(img, path), e.logger, misc.Warning) {
		e.notice = Notice{
			Message:  "couldn't save capture! check if your directory exists",
			Posted:   now,
			Duration: NoticeDuration,
		}
		return path, false
	}
	e.logger.Infof("Saved capture to %s", path)
	return path, true
}

// Notice returns the latest failure notice. Check Visible before showing it.
func (e *Exporter) Notice() Notice {
	return e.notice
}
