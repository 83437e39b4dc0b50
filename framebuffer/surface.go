package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"

	"MandelbrotExplorer/grid"
	"MandelbrotExplorer/misc"
)

var ErrSizeMismatch = errors.New("destination buffer does not match the surface size")

// Format describes how a pixel is packed into a uint32.
type Format int

const (
	// ARGB8888 packs alpha, red, green and blue from the high byte to the low byte.
	ARGB8888 Format = iota
)

func (f Format) String() string {
	return []string{
		"ARGB8888",
	}[f]
}

// Surface is a bounds-checked 2-D array of packed pixels. It implements draw.Image so the image scalers and encoders can
// work on it directly; pixels are either fully opaque or fully cleared so the straight and premultiplied views agree.
type Surface struct {
	pixels *grid.Grid[uint32]
}

func NewSurface(width int, height int) (*Surface, error) {
	pixels, err := grid.New[uint32](width, height)
	if err != nil {
		return nil, err
	}
	return &Surface{pixels: pixels}, nil
}

func (s *Surface) Width() int {
	return s.pixels.Width()
}

func (s *Surface) Height() int {
	return s.pixels.Height()
}

// Stride is the number of pixels between the starts of two consecutive rows.
func (s *Surface) Stride() int {
	return s.pixels.Width()
}

func (s *Surface) Format() Format {
	return ARGB8888
}

func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}

func (s *Surface) Bounds() image.Rectangle {
	return s.pixels.Bounds()
}

func (s *Surface) At(x int, y int) color.Color {
	return s.RGBAAt(x, y)
}

func (s *Surface) RGBAAt(x int, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(s.Bounds())) {
		return color.RGBA{}
	}
	return misc.UnpackARGB(s.pixels.At(x, y))
}

func (s *Surface) Set(x int, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(s.Bounds())) {
		return
	}
	s.pixels.Set(x, y, misc.PackARGB(color.RGBAModel.Convert(c).(color.RGBA)))
}

// Pixel returns the packed value at (x, y).
func (s *Surface) Pixel(x int, y int) uint32 {
	return s.pixels.At(x, y)
}

// Row returns the packed pixels of row y. Only the single writer of the current pass may modify it.
func (s *Surface) Row(y int) []uint32 {
	return s.pixels.Row(y)
}

func (s *Surface) Clear() {
	s.pixels.Fill(0)
}

// Shift moves the image by (dpx, dpy) and clears the uncovered bands.
func (s *Surface) Shift(dpx int, dpy int) {
	s.pixels.Shift(dpx, dpy, 0)
}

// CopyTo copies the packed pixels into dst, which must hold exactly width*height entries.
func (s *Surface) CopyTo(dst []uint32) error {
	cells := s.pixels.Cells()
	if len(dst) != len(cells) {
		return fmt.Errorf("%w: got %d entries, want %d", ErrSizeMismatch, len(dst), len(cells))
	}
	copy(dst, cells)
	return nil
}

// CopyToRGBA unpacks the pixels into dst as consecutive red, green, blue, alpha bytes, the layout GPU textures expect.
// dst must hold exactly 4*width*height bytes.
func (s *Surface) CopyToRGBA(dst []byte) error {
	cells := s.pixels.Cells()
	if len(dst) != 4*len(cells) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(dst), 4*len(cells))
	}
	for i, p := range cells {
		dst[4*i] = uint8(p >> 16)
		dst[4*i+1] = uint8(p >> 8)
		dst[4*i+2] = uint8(p)
		dst[4*i+3] = uint8(p >> 24)
	}
	return nil
}

// Snapshot returns a copy of the surface as an RGBA image.
func (s *Surface) Snapshot() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	for y := 0; y < s.Height(); y++ {
		for x, p := range s.Row(y) {
			img.SetRGBA(x, y, misc.UnpackARGB(p))
		}
	}
	return img
}

func (s *Surface) Checksum() uint64 {
	hash := fnv.New64a()
	buffer := make([]byte, 4)
	for _, p := range s.pixels.Cells() {
		binary.LittleEndian.PutUint32(buffer, p)
		hash.Write(buffer)
	}
	return hash.Sum64()
}
