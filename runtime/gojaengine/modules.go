package gojaengine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ErrUnknownModule is returned when a module name is not registered.
var ErrUnknownModule = errors.New("unknown module")

// ErrModuleExists is returned when registering a module name twice.
var ErrModuleExists = errors.New("module already registered")

// Module is an importable set of named values.
type Module struct {
	// Exports lists the names the module provides. Imports are checked
	// against it at compile time.
	Exports []string

	// Load builds the export values for one evaluation. ctx ends with the
	// evaluation.
	Load func(ctx context.Context) map[string]any
}

func (m Module) exports(name string) bool {
	return slices.Contains(m.Exports, name)
}

// ModuleRegistry maps module names to modules.
//
// Contract:
// - Concurrency: safe for concurrent use.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewModuleRegistry creates an empty registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{modules: make(map[string]Module)}
}

// DefaultModules returns a registry holding the built-in "text" and
// "timing" modules.
func DefaultModules() *ModuleRegistry {
	r := NewModuleRegistry()
	_ = r.Register("text", textModule())
	_ = r.Register("timing", timingModule())
	return r
}

// Register adds a module under name.
func (r *ModuleRegistry) Register(name string, m Module) error {
	if name == "" {
		return fmt.Errorf("module name is required")
	}
	if m.Load == nil {
		return fmt.Errorf("module %q: loader is required", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[name]; ok {
		return fmt.Errorf("%w: %s", ErrModuleExists, name)
	}
	r.modules[name] = m
	return nil
}

// Lookup returns the module registered under name.
func (r *ModuleRegistry) Lookup(name string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		return Module{}, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	return m, nil
}

// Names returns the registered module names in sorted order.
func (r *ModuleRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func textModule() Module {
	return Module{
		Exports: []string{"title", "upper", "lower", "normalize", "narrow", "widen"},
		Load: func(context.Context) map[string]any {
			return map[string]any{
				"title": func(s, lang string) string {
					return cases.Title(language.Make(lang)).String(s)
				},
				"upper": func(s, lang string) string {
					return cases.Upper(language.Make(lang)).String(s)
				},
				"lower": func(s, lang string) string {
					return cases.Lower(language.Make(lang)).String(s)
				},
				"normalize": func(s, form string) (string, error) {
					switch form {
					case "", "NFC":
						return norm.NFC.String(s), nil
					case "NFD":
						return norm.NFD.String(s), nil
					case "NFKC":
						return norm.NFKC.String(s), nil
					case "NFKD":
						return norm.NFKD.String(s), nil
					}
					return "", fmt.Errorf("unknown normalization form %q", form)
				},
				"narrow": width.Narrow.String,
				"widen":  width.Widen.String,
			}
		},
	}
}

func timingModule() Module {
	return Module{
		Exports: []string{"sleep", "now"},
		Load: func(ctx context.Context) map[string]any {
			return map[string]any{
				"sleep": func(ms int64) error {
					timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
					defer timer.Stop()
					select {
					case <-timer.C:
						return nil
					case <-ctx.Done():
						return context.Cause(ctx)
					}
				},
				"now": func() int64 {
					return time.Now().UnixMilli()
				},
			}
		},
	}
}
