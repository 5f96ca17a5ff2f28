package gojaengine

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/jonwraymond/scriptexec/script"
)

// Evaluate implements script.Engine. Each call runs on a fresh runtime.
func (e *Engine) Evaluate(ctx context.Context, artifact script.Artifact, binds []script.Binding) (any, error) {
	p, ok := artifact.(*program)
	if !ok {
		return nil, fmt.Errorf("gojaengine: unexpected artifact %T", artifact)
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper(e.cfg.FieldNameTag, true))
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(context.Cause(ctx))
	})
	defer stop()

	rt := &runtime{ctx: ctx, vm: vm, tasks: make(map[*goja.Object]*jsTask)}
	for _, b := range binds {
		var v any = b.Value
		if s, ok := b.Value.(*script.Scope); ok && b.Name == script.ScopeName {
			v = rt.scopeObject(s)
		}
		if err := vm.Set(b.Name, v); err != nil {
			return nil, fmt.Errorf("gojaengine: bind %s: %w", b.Name, err)
		}
	}
	if err := rt.bindImports(e.cfg.Modules, p.imports); err != nil {
		return nil, err
	}

	v, err := vm.RunProgram(p.prg)
	if err != nil {
		return nil, convert(err)
	}
	if obj, ok := v.(*goja.Object); ok {
		if t := rt.tasks[obj]; t != nil {
			return t.task, nil
		}
	}
	return export(v), nil
}

// runtime is the state of one evaluation.
type runtime struct {
	ctx   context.Context
	vm    *goja.Runtime
	tasks map[*goja.Object]*jsTask
}

func (rt *runtime) bindImports(modules *ModuleRegistry, bindings []importBinding) error {
	loaded := make(map[string]map[string]any)
	for _, b := range bindings {
		exports, ok := loaded[b.module]
		if !ok {
			mod, err := modules.Lookup(b.module)
			if err != nil {
				return fmt.Errorf("gojaengine: %w", err)
			}
			exports = mod.Load(rt.ctx)
			loaded[b.module] = exports
		}
		var v any = exports
		if b.export != "" {
			v = exports[b.export]
		}
		if err := rt.vm.Set(b.local, v); err != nil {
			return fmt.Errorf("gojaengine: bind import %s: %w", b.local, err)
		}
	}
	return nil
}

// jsTask backs the task objects handed to scripts. value and thrown keep
// the JavaScript side of the outcome so await() preserves identity.
type jsTask struct {
	task   *script.Task
	value  goja.Value
	thrown goja.Value
}

func (rt *runtime) scopeObject(s *script.Scope) *goja.Object {
	obj := rt.vm.NewObject()
	_ = obj.Set("async", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(rt.vm.NewTypeError("scope.async expects a function"))
		}
		jt := &jsTask{}
		jt.task = s.Async(func() (any, error) {
			v, err := fn(goja.Undefined())
			if err != nil {
				if ex, ok := err.(*goja.Exception); ok {
					jt.thrown = ex.Value()
				}
				return nil, convert(err)
			}
			jt.value = v
			return export(v), nil
		})
		return rt.taskObject(jt)
	})
	_ = obj.Set("delay", func(ms int64) error {
		return s.Delay(rt.ctx, time.Duration(ms)*time.Millisecond)
	})
	return obj
}

func (rt *runtime) taskObject(jt *jsTask) *goja.Object {
	obj := rt.vm.NewObject()
	_ = obj.Set("await", func(goja.FunctionCall) goja.Value {
		v, err := jt.task.Await(rt.ctx)
		switch {
		case err == nil && jt.value != nil:
			return jt.value
		case err == nil:
			return rt.vm.ToValue(v)
		case jt.thrown != nil:
			panic(jt.thrown)
		default:
			panic(rt.vm.NewGoError(err))
		}
	})
	_ = obj.Set("done", func() bool {
		select {
		case <-jt.task.Done():
			return true
		default:
			return false
		}
	})
	rt.tasks[obj] = jt
	return obj
}

// export converts a script value into its Go form. undefined becomes
// script.Unit.
func export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) {
		return script.Unit{}
	}
	if goja.IsNull(v) {
		return nil
	}
	return v.Export()
}
