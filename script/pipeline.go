package script

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// InternalFile is the file name the engine compiles transformed sources
// under. Frames in this file belong to the snippet.
const InternalFile = "snippet.internal"

// goErrorClass is the exception class given to plain Go errors.
const goErrorClass = "GoError"

// run drives one submission through compile, evaluate and await. Every
// failure, panics included, is converted into a *Failure.
func (e *Executor) run(ctx context.Context, id ExecutionID, snippet string, deps []Dependency) (result Result) {
	log := e.cfg.Logger
	dialect := e.cfg.Engine.Dialect()
	src := Transform(snippet, dialect)
	rep := NewReporter(src, dialect, InternalFile, e.cfg.ScriptName)

	phase := PhaseCompilation
	defer func() {
		if r := recover(); r != nil {
			log.Logf("Script[%d]: Panic during %s: %v", id, phase, r)
			if phase == PhaseCompilation {
				result = &Failure{Phase: phase, Message: rep.Compilation([]Diagnostic{{
					Severity: SeverityFatal,
					Message:  fmt.Sprintf("panic: %v", r),
				}})}
				return
			}
			result = &Failure{Phase: phase, Message: rep.Evaluation(&Exception{Class: "panic", Message: fmt.Sprint(r)})}
		}
	}()

	text := src.String()
	decls := declarations(deps)

	log.Logf("Script[%d]: Compiling", id)
	start := time.Now()
	compiled, hit, err := e.cache.compile(keyOf(text, decls), func() (CompileResult, error) {
		return e.cfg.Engine.Compile(ctx, Source{Text: text, File: InternalFile}, decls)
	})
	if err != nil {
		compiled = CompileResult{Diagnostics: append(compiled.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Message:  err.Error(),
		})}
	}
	if !compiled.OK() {
		log.Logf("Script[%d]: Compilation failed after %v", id, time.Since(start))
		return &Failure{Phase: PhaseCompilation, Message: rep.Compilation(compiled.Diagnostics)}
	}
	log.Logf("Script[%d]: Compiled in %v (cached: %t)", id, time.Since(start), hit)

	phase = PhaseEvaluation
	start = time.Now()
	raw, err := e.cfg.Engine.Evaluate(ctx, compiled.Artifact, bindings(deps))
	if err != nil {
		return e.evaluationFailure(rep, id, start, err)
	}

	payload := raw
	if task, ok := raw.(*Task); ok {
		payload, err = task.Await(ctx)
		if err != nil {
			return e.evaluationFailure(rep, id, start, err)
		}
	}
	log.Logf("Script[%d]: Evaluated in %v", id, time.Since(start))
	return Value{Payload: payload}
}

func (e *Executor) evaluationFailure(rep *Reporter, id ExecutionID, start time.Time, err error) *Failure {
	exc := asException(err)
	e.cfg.Logger.Logf("Script[%d]: Evaluation failed after %v: %s", id, time.Since(start), exc.describe())
	return &Failure{Phase: PhaseEvaluation, Message: rep.Evaluation(exc)}
}

// asException converts err into the engine-neutral exception model.
func asException(err error) *Exception {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc
	}
	var p *PanicError
	if errors.As(err, &p) {
		return &Exception{Class: "panic", Message: fmt.Sprint(p.Value)}
	}
	return &Exception{Class: goErrorClass, Message: err.Error()}
}
