package export

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
	"golang.org/x/image/bmp"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(60 * y), B: 200, A: 255})
		}
	}
	// a cleared pixel must still come out opaque
	img.SetNRGBA(0, 0, color.NRGBA{})
	return img
}

func TestCaptureRoundTrip(t *testing.T) {
	dir := t.TempDir()
	decoders := map[string]func(f *os.File) (image.Image, error){
		"capture.png": func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"capture.BMP": func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
	}

	for name, decode := range decoders {
		path := filepath.Join(dir, name)
		if err := Capture(testImage(), path); err != nil {
			t.Fatalf("Capture(%s) returned %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		img, err := decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decoding %s: %v", name, err)
		}
		if img.Bounds() != image.Rect(0, 0, 6, 4) {
			t.Fatalf("%s bounds = %v", name, img.Bounds())
		}
		if got := color.RGBAModel.Convert(img.At(5, 3)).(color.RGBA); got != (color.RGBA{R: 200, G: 180, B: 200, A: 255}) {
			t.Errorf("%s pixel (5, 3) = %v", name, got)
		}
		if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
			t.Errorf("%s cleared pixel has alpha %d", name, a)
		}
	}
}

func TestCaptureFailsCleanly(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing", "capture.png")
	if err := Capture(testImage(), missing); err == nil {
		t.Error("Capture into a missing directory succeeded")
	}
	if err := Capture(testImage(), filepath.Join(dir, "capture.gif")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Capture(.gif) returned %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("failed captures left %d files behind", len(entries))
	}
}

func TestCaptureName(t *testing.T) {
	at := time.Date(2024, time.March, 5, 17, 4, 9, 0, time.UTC)
	if got := CaptureName(at); got != "2024-03-05-17-04-09.png" {
		t.Errorf("CaptureName = %q", got)
	}
}

func TestNoticeVisibility(t *testing.T) {
	posted := time.Date(2024, time.March, 5, 17, 4, 9, 0, time.UTC)
	n := Notice{Message: "failed", Posted: posted, Duration: NoticeDuration}
	if !n.Visible(posted.Add(time.Second)) {
		t.Error("notice hidden after one second")
	}
	if n.Visible(posted.Add(NoticeDuration)) {
		t.Error("notice still visible after its duration")
	}
	if (Notice{}).Visible(posted) {
		t.Error("empty notice is visible")
	}
}

func TestExporterSave(t *testing.T) {
	logger := bslogger.NewLogger("Test", bslogger.Normal, nil)
	at := time.Date(2024, time.March, 5, 17, 4, 9, 0, time.UTC)

	dir := t.TempDir()
	e := NewExporter(dir, logger)
	e.now = func() time.Time { return at }
	path, ok := e.Save(testImage())
	if !ok || path != filepath.Join(dir, "2024-03-05-17-04-09.png") {
		t.Errorf("Save = %q, %t", path, ok)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
	if e.Notice().Visible(at) {
		t.Error("a successful save posted a notice")
	}

	e = NewExporter(filepath.Join(dir, "nope"), logger)
	e.now = func() time.Time { return at }
	if _, ok := e.Save(testImage()); ok {
		t.Error("Save into a missing directory succeeded")
	}
	if n := e.Notice(); !n.Visible(at.Add(time.Second)) || n.Visible(at.Add(4*time.Second)) {
		t.Errorf("notice %+v has the wrong lifetime", n)
	}
}
