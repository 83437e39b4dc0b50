package controller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
)

func newController() *Controller {
	return New(bslogger.NewLogger("Test", bslogger.Normal, nil))
}

// blockingPass runs until cancelled, counting writes to counter.
func blockingPass(started chan<- struct{}, counter *atomic.Int64) Pass {
	return func(ctx context.Context) bool {
		close(started)
		for {
			if ctx.Err() != nil {
				return false
			}
			counter.Add(1)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestRunCompletes(t *testing.T) {
	c := newController()
	completed, err := c.Run(func(ctx context.Context) bool { return true })
	if err != nil || !completed {
		t.Fatalf("Run = %t, %v", completed, err)
	}
	if c.State() != Idle || c.IsRunning() {
		t.Errorf("state after Run = %s", c.State())
	}
	if c.Passes() != 1 {
		t.Errorf("Passes = %d", c.Passes())
	}
}

func TestStopInterruptsAndNoWritesFollow(t *testing.T) {
	c := newController()
	var counter atomic.Int64
	started := make(chan struct{})
	if err := c.Start(blockingPass(started, &counter)); err != nil {
		t.Fatal(err)
	}
	<-started
	if !c.IsRunning() {
		t.Error("IsRunning = false during a pass")
	}
	if err := c.Start(func(ctx context.Context) bool { return true }); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start returned %v", err)
	}

	if interrupted := c.Stop(); !interrupted {
		t.Error("Stop did not report an interruption")
	}
	after := counter.Load()
	time.Sleep(5 * time.Millisecond)
	if counter.Load() != after {
		t.Error("the pass kept writing after Stop returned")
	}
	if c.State() != Idle || c.IsRunning() {
		t.Errorf("state after Stop = %s", c.State())
	}
	if c.Stop() {
		t.Error("Stop on an idle controller reported an interruption")
	}
}

func TestWaitJoinsWithoutCancelling(t *testing.T) {
	c := newController()
	release := make(chan struct{})
	if err := c.Start(func(ctx context.Context) bool {
		<-release
		return ctx.Err() == nil
	}); err != nil {
		t.Fatal(err)
	}
	go func() {
		time.Sleep(2 * time.Millisecond)
		close(release)
	}()
	if !c.Wait() {
		t.Error("Wait reported an interrupted pass")
	}
	if c.State() != Idle {
		t.Errorf("state after Wait = %s", c.State())
	}
	if !c.Wait() {
		t.Error("Wait on an idle controller returned false")
	}
}

func TestFinishedPassIsJoinedByNextStart(t *testing.T) {
	c := newController()
	if err := c.Start(func(ctx context.Context) bool { return true }); err != nil {
		t.Fatal(err)
	}
	for c.IsRunning() {
		time.Sleep(time.Millisecond)
	}
	if c.State() != Completed {
		t.Errorf("state = %s, want Completed", c.State())
	}
	if err := c.Start(func(ctx context.Context) bool { return true }); err != nil {
		t.Errorf("Start after a finished pass returned %v", err)
	}
	c.Wait()
	if c.Passes() != 2 {
		t.Errorf("Passes = %d", c.Passes())
	}
}

func TestStopAfterCompletion(t *testing.T) {
	c := newController()
	if err := c.Start(func(ctx context.Context) bool { return true }); err != nil {
		t.Fatal(err)
	}
	for c.IsRunning() {
		time.Sleep(time.Millisecond)
	}
	if c.Stop() {
		t.Error("Stop reported an interruption of a completed pass")
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{Idle: "Idle", Running: "Running", Cancelling: "Cancelling", Completed: "Completed", Cancelled: "Cancelled", 9: "State(9)"}
	for s, name := range names {
		if s.String() != name {
			t.Errorf("String() = %q, want %q", s.String(), name)
		}
	}
}
