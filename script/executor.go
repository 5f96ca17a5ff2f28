package script

import (
	"context"
	"slices"
	"sync/atomic"
)

// Executor runs snippets. Each Execute call is an independent, supervised
// child of the executor's scope.
//
// Contract:
// - Concurrency: safe for concurrent use; submissions may complete in any order.
// - Context: ctx is passed to the engine; cancelling it fails that submission only.
// - Errors: snippet failures are returned as *Failure results, never as errors.
// - Lifecycle: Execute must not be called concurrently with or after Close.
type Executor struct {
	cfg   Config
	scope *Scope
	cache *compileCache

	seq    atomic.Int64
	failed atomic.Int64
}

// New creates an Executor with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func New(cfg Config) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &Executor{
		cfg:   cfg,
		scope: NewScope(cfg.MaxConcurrency),
		cache: newCompileCache(cfg.CacheSize),
	}, nil
}

// Execute compiles and evaluates snippet with deps bound by name and
// returns its result. The scope is bound under ScopeName in addition to
// deps. The returned error is non-nil only for misuse and wraps ErrMisuse.
func (e *Executor) Execute(ctx context.Context, snippet string, deps ...Dependency) (Result, error) {
	if e.scope.Closed() {
		return nil, &MisuseError{Reason: "submission after close", Err: ErrClosed}
	}
	if err := validateDependencies(deps); err != nil {
		return nil, err
	}

	id := ExecutionID(e.seq.Add(1))
	all := append(slices.Clone(deps), NewDependency(ScopeName, e.scope))

	e.cfg.Logger.Logf("Script[%d]: Executing", id)
	task := e.scope.Go(func() (any, error) {
		return e.run(ctx, id, snippet, all), nil
	})

	v, err := task.Result()
	if err != nil {
		e.failed.Add(1)
		return &Failure{Phase: PhaseEvaluation, Message: err.Error()}, nil
	}
	result := v.(Result)
	if f, ok := result.(*Failure); ok {
		e.failed.Add(1)
		e.cfg.Logger.Logf("Script[%d]: Failed in %s phase", id, f.Phase)
	} else {
		e.cfg.Logger.Logf("Script[%d]: Completed", id)
	}
	return result, nil
}

// Scope returns the supervision scope snippets are bound to.
func (e *Executor) Scope() *Scope {
	return e.scope
}

// Close waits for every running submission to complete, then tears down
// the scope. Calling Close more than once waits for the first call.
func (e *Executor) Close() error {
	e.scope.Close()
	e.cache.Purge()
	e.cfg.Logger.Logf("Executor closed after %d submissions (%d failed)", e.seq.Load(), e.failed.Load())
	if s, ok := e.cfg.Logger.(syncer); ok {
		_ = s.Sync()
	}
	return nil
}
