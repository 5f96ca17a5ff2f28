package script

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestScope_GoCapturesErrors(t *testing.T) {
	s := NewScope(0)
	defer s.Close()

	boom := errors.New("boom")
	failing := s.Go(func() (any, error) { return nil, boom })
	ok := s.Go(func() (any, error) { return 7, nil })

	if _, err := failing.Result(); !errors.Is(err, boom) {
		t.Errorf("failing task error = %v, want boom", err)
	}
	if v, err := ok.Result(); err != nil || v != 7 {
		t.Errorf("sibling task = (%v, %v), want (7, nil)", v, err)
	}
	if s.Context().Err() != nil {
		t.Error("a failing child cancelled the scope")
	}
}

func TestScope_GoRecoversPanics(t *testing.T) {
	s := NewScope(0)
	defer s.Close()

	_, err := s.Go(func() (any, error) { panic("kaboom") }).Result()
	var p *PanicError
	if !errors.As(err, &p) {
		t.Fatalf("error = %v, want *PanicError", err)
	}
	if p.Value != "kaboom" || len(p.Stack) == 0 {
		t.Errorf("PanicError = %v with %d stack bytes", p.Value, len(p.Stack))
	}
}

func TestScope_AsyncRunsInline(t *testing.T) {
	s := NewScope(0)
	defer s.Close()

	ran := false
	task := s.Async(func() (any, error) {
		ran = true
		return "v", nil
	})
	if !ran {
		t.Fatal("Async did not run fn before returning")
	}
	select {
	case <-task.Done():
	default:
		t.Fatal("task returned by Async is not done")
	}
	if _, err := s.Async(func() (any, error) { panic("inline") }).Result(); err == nil {
		t.Error("panic in Async not captured")
	}
}

func TestTask_AwaitHonorsContext(t *testing.T) {
	s := NewScope(0)
	release := make(chan struct{})
	task := s.Go(func() (any, error) {
		<-release
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := task.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await error = %v, want DeadlineExceeded", err)
	}
	close(release)
	s.Close()
}

func TestScope_Delay(t *testing.T) {
	s := NewScope(0)
	defer s.Close()

	if err := s.Delay(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Delay error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Delay(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Delay error = %v, want Canceled", err)
	}
}

func TestScope_CloseOrdering(t *testing.T) {
	s := NewScope(0)

	var childDone atomic.Bool
	var order []string
	s.Go(func() (any, error) {
		time.Sleep(20 * time.Millisecond)
		if s.Context().Err() != nil {
			t.Error("scope cancelled while a child was running")
		}
		childDone.Store(true)
		return nil, nil
	})
	s.OnClose(func() {
		if !childDone.Load() {
			t.Error("teardown ran before children finished")
		}
		if s.Context().Err() == nil {
			t.Error("teardown ran before the scope was cancelled")
		}
		order = append(order, "teardown")
	})

	s.Close()
	if len(order) != 1 {
		t.Errorf("teardown hooks ran %d times, want 1", len(order))
	}
	if !s.Closed() {
		t.Error("Closed() = false after Close")
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done not closed after Close")
	}

	// a second Close returns immediately
	s.Close()
}

func TestScope_DelayEndsWithScope(t *testing.T) {
	s := NewScope(0)
	s.Close()
	if err := s.Delay(context.Background(), time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Delay error = %v, want Canceled", err)
	}
}
