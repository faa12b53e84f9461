package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type blockingService struct {
	name    string
	stopped atomic.Bool
	done    chan struct{}
}

func newBlockingService(name string) *blockingService {
	return &blockingService{name: name, done: make(chan struct{})}
}

func (s *blockingService) Name() string { return s.name }

func (s *blockingService) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-s.done:
	}
	return nil
}

func (s *blockingService) Stop(context.Context) error {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.done)
	}
	return nil
}

type failingService struct{ err error }

func (s failingService) Name() string { return "failing" }

func (s failingService) Start(context.Context) error { return s.err }

func (s failingService) Stop(context.Context) error { return nil }

func TestRunnerStopsOnCancelAndRunsCleanups(t *testing.T) {
	svc := newBlockingService("http")
	runner := NewRunner(svc)
	var order []string
	runner.OnShutdown(func() error { order = append(order, "first"); return nil })
	runner.OnShutdown(func() error { order = append(order, "second"); return errors.New("ignored") })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should stop cleanly, got %v", err)
	}
	if !svc.stopped.Load() {
		t.Fatalf("expected service stopped")
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("cleanups should run in reverse order, got %v", order)
	}
}

func TestRunnerPropagatesServiceFailure(t *testing.T) {
	boom := errors.New("listen failed")
	peer := newBlockingService("worker")
	runner := NewRunner(failingService{err: boom}, peer)

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected failure propagated, got %v", err)
	}
	if !peer.stopped.Load() {
		t.Fatalf("peer service should be stopped after failure")
	}
}

func TestRunnerRejectsEmpty(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]struct {
		want string
		ok   bool
	}{
		"":         {ModeAll, true},
		" API ":    {ModeAPI, true},
		"worker":   {ModeWorker, true},
		"cronjobs": {"cronjobs", false},
	}
	for raw, tc := range cases {
		got, ok := ParseMode(raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseMode(%q) = %q,%v want %q,%v", raw, got, ok, tc.want, tc.ok)
		}
	}
}
