package runner

import (
	"context"
	"testing"
	"time"

	"github.com/smallestai/waves-go/pkg/errorsx"
)

type drainerFunc func() error

func (f drainerFunc) Drain() error { return f() }

func TestRunDrainsOnContextCancel(t *testing.T) {
	drained := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	r := NewLifecycleRunner(drainerFunc(func() error {
		close(drained)
		return nil
	}), Hooks{OnStart: cancel}, time.Second)

	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	select {
	case <-drained:
	default:
		t.Fatalf("drainer was not invoked on shutdown")
	}
	if r.State() != StateStopped {
		t.Fatalf("expected stopped state, got %d", r.State())
	}
}

func TestRunTwiceFailsWithInvalidState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewLifecycleRunner(nil, Hooks{OnStart: cancel}, time.Second)

	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	err := r.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error on second run")
	}
	if !errorsx.HasReason(err, errorsx.ReasonInvalidState) {
		t.Fatalf("expected invalid_state reason, got %s", errorsx.Reason(err))
	}
}

func TestDrainTimeoutCarriesReason(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	r := NewLifecycleRunner(drainerFunc(func() error {
		<-block
		return nil
	}), Hooks{OnStart: cancel}, 50*time.Millisecond)

	err := r.Run(ctx)
	if err == nil {
		t.Fatalf("expected drain timeout error")
	}
	if !errorsx.HasReason(err, errorsx.ReasonDrainTimeout) {
		t.Fatalf("expected drain_timeout reason, got %s", errorsx.Reason(err))
	}
	if r.State() != StateStopped {
		t.Fatalf("expected stopped state, got %d", r.State())
	}
}
