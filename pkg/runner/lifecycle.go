package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallestai/waves-go/pkg/errorsx"
)

// LifecycleRunner hosts a streaming pipeline for its whole lifetime: it
// launches the work through the start hook, blocks until the context ends,
// then drains in-flight transcription (bounded by the timeout) before
// reporting stopped. Typical drainers close the active session so its
// receive loop unwinds.
type LifecycleRunner struct {
	state    int32
	ctx      context.Context
	cancel   context.CancelFunc
	onceStop sync.Once
	hooks    Hooks
	drainer  Drainer
	stopErr  error
	timeout  time.Duration
}

func NewLifecycleRunner(drainer Drainer, hooks Hooks, timeout time.Duration) *LifecycleRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LifecycleRunner{
		state:   int32(StateNew),
		ctx:     ctx,
		cancel:  cancel,
		hooks:   hooks,
		drainer: drainer,
		timeout: timeout,
	}
}

// Run blocks until ctx is canceled, then drains. Calling Run twice is an
// invalid-state error.
func (r *LifecycleRunner) Run(ctx context.Context) error {
	if !r.casState(StateNew, StateStarting) {
		return errorsx.Wrap(errors.New("runner already started"), errorsx.ReasonInvalidState)
	}
	PrintBanner()
	if ctx != nil {
		r.ctx, r.cancel = context.WithCancel(ctx)
	}
	if r.hooks.OnStart != nil {
		r.hooks.OnStart()
	}
	r.setState(StateRunning)
	<-r.ctx.Done()
	return r.stop()
}

func (r *LifecycleRunner) Stop() error {
	r.cancel()
	return r.stop()
}

func (r *LifecycleRunner) State() State {
	return State(atomic.LoadInt32(&r.state))
}

func (r *LifecycleRunner) stop() error {
	r.onceStop.Do(func() {
		r.setState(StateDraining)
		if r.drainer != nil {
			done := make(chan struct{})
			go func() {
				_ = r.drainer.Drain()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(r.timeout):
				r.stopErr = errorsx.Wrap(errors.New("drain timed out"), errorsx.ReasonDrainTimeout)
			}
		}
		if r.hooks.OnStop != nil {
			r.hooks.OnStop()
		}
		r.setState(StateStopped)
	})
	return r.stopErr
}

func (r *LifecycleRunner) casState(from, to State) bool {
	return atomic.CompareAndSwapInt32(&r.state, int32(from), int32(to))
}

func (r *LifecycleRunner) setState(s State) {
	atomic.StoreInt32(&r.state, int32(s))
}
