// Package cache tracks which pixels of the frame already hold a valid colour so a pass only computes what changed.
package cache

import (
	"encoding/binary"
	"hash/fnv"
	"image"
	"image/color"
	"math"

	"MandelbrotExplorer/grid"
)

// Record is the per-pixel render state. Single-sample backends only use Rendered; the progressive backend accumulates
// colour sums over Samples samples. The zero value means "not rendered".
type Record struct {
	Rendered bool
	Samples  uint32
	R        uint32
	G        uint32
	B        uint32
}

// Add accumulates one sample of c.
func (r *Record) Add(c color.RGBA) {
	r.Samples++
	r.R += uint32(c.R)
	r.G += uint32(c.G)
	r.B += uint32(c.B)
}

// Average returns the mean of the accumulated samples as an opaque colour.
func (r *Record) Average() color.RGBA {
	if r.Samples == 0 {
		return color.RGBA{}
	}
	n := r.Samples
	return color.RGBA{
		R: uint8((r.R + n/2) / n),
		G: uint8((r.G + n/2) / n),
		B: uint8((r.B + n/2) / n),
		A: 255,
	}
}

type Cache struct {
	records *grid.Grid[Record]
}

func New(width int, height int) (*Cache, error) {
	records, err := grid.New[Record](width, height)
	if err != nil {
		return nil, err
	}
	return &Cache{records: records}, nil
}

func (c *Cache) Width() int {
	return c.records.Width()
}

func (c *Cache) Height() int {
	return c.records.Height()
}

func (c *Cache) Bounds() image.Rectangle {
	return c.records.Bounds()
}

// Resize reallocates the cache with every record unrendered.
func (c *Cache) Resize(width int, height int) error {
	return c.records.Resize(width, height)
}

// Reset sets every record to value.
func (c *Cache) Reset(value Record) {
	c.records.Fill(value)
}

// InvalidateRect marks the part of rect inside the cache as unrendered.
func (c *Cache) InvalidateRect(rect image.Rectangle) {
	c.records.FillRect(rect, Record{})
}

// Shift moves the records by (dpx, dpy) and marks the two uncovered edge bands unrendered.
func (c *Cache) Shift(dpx int, dpy int) {
	c.records.Shift(dpx, dpy, Record{})
}

func (c *Cache) At(x int, y int) Record {
	return c.records.At(x, y)
}

// Row returns the records of row y for in-place updates. Only the single writer of the current pass may use it.
func (c *Cache) Row(y int) []Record {
	return c.records.Row(y)
}

// Pending counts the records that done does not accept.
func (c *Cache) Pending(done func(Record) bool) int {
	pending := 0
	for _, record := range c.records.Cells() {
		if !done(record) {
			pending++
		}
	}
	return pending
}

// MinSamples returns the lowest sample count in the cache.
func (c *Cache) MinSamples() uint32 {
	var lowest uint32 = math.MaxUint32
	for _, record := range c.records.Cells() {
		if record.Samples < lowest {
			lowest = record.Samples
		}
	}
	return lowest
}

// Checksum hashes every record. Two equal checksums taken at different times mean nothing was written in between.
func (c *Cache) Checksum() uint64 {
	hash := fnv.New64a()
	buffer := make([]byte, 17)
	for _, record := range c.records.Cells() {
		buffer[0] = 0
		if record.Rendered {
			buffer[0] = 1
		}
		binary.LittleEndian.PutUint32(buffer[1:], record.Samples)
		binary.LittleEndian.PutUint32(buffer[5:], record.R)
		binary.LittleEndian.PutUint32(buffer[9:], record.G)
		binary.LittleEndian.PutUint32(buffer[13:], record.B)
		hash.Write(buffer)
	}
	return hash.Sum64()
}
