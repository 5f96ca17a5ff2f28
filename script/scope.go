package script

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is the handle of a unit of work started on a Scope.
type Task struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

// CompletedTask returns a task that already finished with value and err.
func CompletedTask(value any, err error) *Task {
	t := newTask()
	t.complete(value, err)
	return t
}

func (t *Task) complete(value any, err error) {
	t.once.Do(func() {
		t.value, t.err = value, err
		close(t.done)
	})
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Await blocks until the task finishes or ctx ends.
func (t *Task) Await(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome of a finished task. It blocks while the task
// is running.
func (t *Task) Result() (any, error) {
	<-t.done
	return t.value, t.err
}

// PanicError is the failure of a task whose function panicked.
type PanicError struct {
	Value any
	Stack []byte
}

// Error returns the panic value.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Scope supervises independent units of work. A failing unit never affects
// its siblings or the scope; Close waits for every unit before cancelling
// the scope.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Lifecycle: Go must not be called concurrently with or after Close.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu    sync.Mutex
	hooks []func()

	closed atomic.Bool
	done   chan struct{}
}

// NewScope creates a scope running at most limit units at a time. A limit
// of zero or less means unbounded.
func NewScope(limit int) *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scope{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	if limit > 0 {
		s.group.SetLimit(limit)
	}
	return s
}

// Context is cancelled when the scope is torn down.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go starts fn as a supervised unit. When the scope is at its limit, Go
// blocks until a slot frees up. Errors and panics of fn end up in the
// returned task only.
func (s *Scope) Go(fn func() (any, error)) *Task {
	t := newTask()
	s.group.Go(func() error {
		t.complete(capture(fn))
		return nil
	})
	return t
}

// Async runs fn on the calling goroutine and returns its outcome as a
// finished task. Errors and panics of fn are captured, not propagated.
func (s *Scope) Async(fn func() (any, error)) *Task {
	return CompletedTask(capture(fn))
}

func capture(fn func() (any, error)) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// Delay waits for d, returning early with an error when ctx or the scope
// ends first.
func (s *Scope) Delay(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return context.Cause(s.ctx)
	}
}

// OnClose registers fn to run during teardown, after the scope context has
// been cancelled.
func (s *Scope) OnClose(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	return s.closed.Load()
}

// Close waits for all running units to finish, then cancels the scope and
// waits for the teardown hooks. Running units are never cancelled.
func (s *Scope) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		<-s.done
		return
	}
	_ = s.group.Wait()
	s.cancel()

	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, hook := range hooks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hook()
		}()
	}
	wg.Wait()
	close(s.done)
}

// Done is closed once Close has completed.
func (s *Scope) Done() <-chan struct{} {
	return s.done
}
