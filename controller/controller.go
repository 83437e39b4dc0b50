// Package controller runs at most one cancellable render pass at a time.
//
// A pass moves Idle -> Running and ends Completed, or Cancelling -> Cancelled when Stop interrupts it. Joining it
// through Stop or Wait returns the controller to Idle. The goroutine running a pass closes its done channel after its
// last write, and Stop and Wait only return after receiving from that channel, so anything the pass wrote happens
// before they return.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/BrugadaSyndrome/bslogger"
)

const (
	Idle State = iota
	Running
	Cancelling
	Completed
	Cancelled
)

var ErrBusy = errors.New("a render pass is already running")

type State int32

func (s State) String() string {
	if s < Idle || s > Cancelled {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return []string{
		"Idle", "Running", "Cancelling", "Completed", "Cancelled",
	}[s]
}

// Pass does the work of one render pass. It must poll ctx and return false if it stopped early.
type Pass func(ctx context.Context) bool

type Controller struct {
	logger bslogger.Logger
	mutex  sync.Mutex
	state  atomic.Int32

	cancel    context.CancelFunc
	completed bool
	done      chan struct{}
	passes    int
}

func New(logger bslogger.Logger) *Controller {
	return &Controller{logger: logger}
}

// Start launches pass on its own goroutine and returns immediately.
func (c *Controller) Start(pass Pass) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ctx, err := c.begin()
	if err != nil {
		return err
	}
	go c.run(ctx, pass, c.done)
	return nil
}

// Run executes pass on the calling goroutine and reports whether it completed.
func (c *Controller) Run(pass Pass) (bool, error) {
	c.mutex.Lock()
	ctx, err := c.begin()
	done := c.done
	c.mutex.Unlock()
	if err != nil {
		return false, err
	}

	completed := c.run(ctx, pass, done)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	// a concurrent Stop may already have joined this pass
	if c.done == done {
		c.join()
	}
	return completed, nil
}

// Stop cancels the running pass and blocks until it has exited. It reports whether a pass was interrupted before it
// completed. Stop on an idle controller returns false immediately.
func (c *Controller) Stop() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.done == nil {
		return false
	}
	c.state.CompareAndSwap(int32(Running), int32(Cancelling))
	c.cancel()
	return !c.join()
}

// Wait blocks until the current pass finishes on its own and reports whether it completed. Wait on an idle controller
// returns true.
func (c *Controller) Wait() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.done == nil {
		return true
	}
	return c.join()
}

// IsRunning reports whether a pass is still executing. It never blocks.
func (c *Controller) IsRunning() bool {
	s := c.State()
	return s == Running || s == Cancelling
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// Passes returns how many passes have been started.
func (c *Controller) Passes() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.passes
}

// begin prepares a new pass. A pass that already finished but was never joined is joined first. The mutex must be held.
func (c *Controller) begin() (context.Context, error) {
	if c.done != nil {
		select {
		case <-c.done:
			c.join()
		default:
			return nil, ErrBusy
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.completed = false
	c.done = make(chan struct{})
	c.passes++
	c.state.Store(int32(Running))
	return ctx, nil
}

func (c *Controller) run(ctx context.Context, pass Pass, done chan struct{}) bool {
	completed := pass(ctx)
	c.completed = completed
	if completed {
		c.state.Store(int32(Completed))
	} else {
		c.state.Store(int32(Cancelled))
	}
	close(done)
	return completed
}

// join waits for the pass to exit, releases its context and returns to Idle. The mutex must be held.
func (c *Controller) join() bool {
	<-c.done
	completed := c.completed
	c.logger.Debugf("Render pass %d ended %s", c.passes, c.State())
	c.cancel()
	c.cancel = nil
	c.done = nil
	c.state.Store(int32(Idle))
	return completed
}
