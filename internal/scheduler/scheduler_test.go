package scheduler

import (
	"context"
	"errors"
	"testing"
)

func TestStartDisabled(t *testing.T) {
	s := New("", nil)
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.IsRunning() {
		t.Fatalf("empty spec must not schedule")
	}
	s.Stop()
}

func TestStartWithoutFunction(t *testing.T) {
	s := New("0 21 * * *", nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.IsRunning() {
		t.Fatalf("nothing to run")
	}
	s.Stop()
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New("every day", nil)
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err == nil {
		t.Fatalf("expected parse error")
	}
	s.Stop()
}

func TestStartAndRunNow(t *testing.T) {
	calls := 0
	s := New("0 21 * * *", nil)
	s.SetReportFunction(func(ctx context.Context) error {
		calls++
		return ctx.Err()
	})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatalf("report not scheduled")
	}
	if err := s.RunNow(); err != nil || calls != 1 {
		t.Fatalf("run now: %v calls=%d", err, calls)
	}
	s.Stop()
	if err := s.RunNow(); !errors.Is(err, context.Canceled) {
		t.Fatalf("want canceled after stop, got %v", err)
	}
}
