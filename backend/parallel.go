package backend

import (
	"context"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotExplorer/cache"
	"MandelbrotExplorer/task"
)

// parallel splits the frame into disjoint tasks and renders them on a pool of workers. Every pixel belongs to exactly
// one task, so workers never write the same cache record or surface pixel.
type parallel struct {
	logger   bslogger.Logger
	settings Settings
}

func (p *parallel) Kind() Kind {
	return Parallel
}

func (p *parallel) Done(record cache.Record) bool {
	return rendered(record)
}

func (p *parallel) Configure(settings Settings) {
	p.settings = settings
}

func (p *parallel) Render(ctx context.Context, job *Job) Result {
	startTime := time.Now()
	tasks := task.Split(job.Cache.Bounds(), p.settings.Generation, p.settings.TaskSize)

	completed, pixels := fanOut(ctx, tasks, p.settings.Concurrency, func(worker int, t task.Task) int {
		return job.renderRect(t.Bounds)
	})

	if !completed {
		p.logger.Debugf("Parallel pass cancelled after %d pixels", pixels)
		return Result{Pixels: pixels}
	}
	p.logger.Debugf("Parallel pass rendered %d pixels in %d tasks on %d workers in %s", pixels, len(tasks), p.settings.Concurrency, time.Since(startTime))
	return Result{Completed: true, Pixels: pixels}
}
