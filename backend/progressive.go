package backend

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotExplorer/cache"
	"MandelbrotExplorer/misc"
	"MandelbrotExplorer/task"
)

// progressive refines the frame over repeated launches. Each launch adds SamplesPerLaunch jittered samples to every
// pixel that has fewer than TotalSamples and writes the running average, so an interrupted pass still leaves a valid
// (noisier) image and the next pass resumes where it stopped.
type progressive struct {
	logger      bslogger.Logger
	settings    Settings
	launches    int64
	sampleCount atomic.Uint32
}

func (p *progressive) Kind() Kind {
	return Progressive
}

func (p *progressive) Done(record cache.Record) bool {
	return record.Samples >= uint32(p.settings.TotalSamples)
}

func (p *progressive) Configure(settings Settings) {
	p.settings = settings
}

// SampleCount is the lowest per-pixel sample count after the last finished launch.
func (p *progressive) SampleCount() int {
	return int(p.sampleCount.Load())
}

func (p *progressive) Render(ctx context.Context, job *Job) Result {
	startTime := time.Now()
	p.sampleCount.Store(job.Cache.MinSamples())
	if int(p.sampleCount.Load()) >= p.settings.TotalSamples {
		return Result{Completed: true}
	}

	edge := tileEdge * p.settings.BlockSize
	tasks := task.Split(job.Cache.Bounds(), task.Block, edge)
	workers := p.settings.Concurrency
	if workers < 1 {
		workers = 1
	}
	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(p.settings.Seed))
	}

	pixels := 0
	for {
		launch := p.launches
		completed, written := fanOut(ctx, tasks, workers, func(worker int, t task.Task) int {
			// reseeding per tile keeps the jitter independent of which worker picked the tile
			rng := rngs[worker]
			rng.Seed(p.settings.Seed ^ launch<<32 ^ int64(t.ID))
			return p.sampleRect(job, t, rng)
		})
		pixels += written
		// an interrupted launch has still spent its seeds
		p.launches++
		if !completed {
			p.logger.Debugf("Progressive pass cancelled after %d samples", pixels)
			return Result{Pixels: pixels}
		}

		lowest := job.Cache.MinSamples()
		p.sampleCount.Store(lowest)
		if int(lowest) >= p.settings.TotalSamples {
			break
		}
	}

	p.logger.Debugf("Progressive pass reached %d samples per pixel in %s", p.SampleCount(), time.Since(startTime))
	return Result{Completed: true, Pixels: pixels}
}

// sampleRect adds up to SamplesPerLaunch samples to each unfinished pixel of t and returns how many pixels changed.
func (p *progressive) sampleRect(job *Job, t task.Task, rng *rand.Rand) int {
	total := uint32(p.settings.TotalSamples)
	perLaunch := uint32(p.settings.SamplesPerLaunch)
	written := 0

	for y := t.Bounds.Min.Y; y < t.Bounds.Max.Y; y++ {
		records := job.Cache.Row(y)
		pixels := job.Surface.Row(y)
		for x := t.Bounds.Min.X; x < t.Bounds.Max.X; x++ {
			record := &records[x]
			if record.Samples >= total {
				continue
			}
			samples := perLaunch
			if total-record.Samples < samples {
				samples = total - record.Samples
			}
			for s := uint32(0); s < samples; s++ {
				record.Add(job.shade(float64(x)+rng.Float64(), float64(y)+rng.Float64()))
			}
			pixels[x] = misc.PackARGB(record.Average())
			written++
		}
	}
	return written
}
