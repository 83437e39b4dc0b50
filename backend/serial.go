package backend

import (
	"context"
	"image"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotExplorer/cache"
)

// serial scans the frame row by row on the calling goroutine.
type serial struct {
	logger bslogger.Logger
}

func (s *serial) Kind() Kind {
	return Serial
}

func (s *serial) Done(record cache.Record) bool {
	return rendered(record)
}

func (s *serial) Configure(settings Settings) {}

func (s *serial) Render(ctx context.Context, job *Job) Result {
	startTime := time.Now()
	width := job.Cache.Width()
	pixels := 0

	for y := 0; y < job.Cache.Height(); y++ {
		if ctx.Err() != nil {
			s.logger.Debugf("Serial pass cancelled at row %d after %d pixels", y, pixels)
			return Result{Pixels: pixels}
		}
		pixels += job.renderRect(image.Rect(0, y, width, y+1))
	}

	s.logger.Debugf("Serial pass rendered %d pixels in %s", pixels, time.Since(startTime))
	return Result{Completed: true, Pixels: pixels}
}
