package backend

import (
	"context"
	"sync"
	"sync/atomic"

	"MandelbrotExplorer/task"
)

// fanOut hands tasks to workers goroutines through a channel. Each worker checks ctx before taking its next task and
// stops at the first cancellation, leaving the remaining tasks undone. process receives the index of the worker that
// runs it so per-worker state needs no locking. fanOut returns once every worker has exited, whether every task ran,
// and the sum of what process returned.
func fanOut(ctx context.Context, tasks []task.Task, workers int, process func(worker int, t task.Task) int) (bool, int) {
	if workers > len(tasks) {
		workers = len(tasks)
	}

	tasksTodo := make(chan task.Task, len(tasks))
	for _, t := range tasks {
		tasksTodo <- t
	}
	close(tasksTodo)

	var tasksDone atomic.Int64
	var pixels atomic.Int64
	workerWait := &sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		workerWait.Add(1)
		go func(worker int) {
			defer workerWait.Done()
			for t := range tasksTodo {
				if ctx.Err() != nil {
					return
				}
				pixels.Add(int64(process(worker, t)))
				tasksDone.Add(1)
			}
		}(w)
	}
	workerWait.Wait()

	return tasksDone.Load() == int64(len(tasks)), int(pixels.Load())
}
