package script

import (
	"context"
	"reflect"
)

// ScopeName is the reserved dependency name under which every snippet sees
// the executor's supervision scope.
const ScopeName = "scope"

// Dependency is a named, typed value injected into a snippet. The compile
// phase sees Name and Type; the evaluate phase sees Name and Value.
type Dependency struct {
	Name  string
	Type  reflect.Type
	Value any
}

// NewDependency builds a Dependency whose declared type is T.
func NewDependency[T any](name string, value T) Dependency {
	return Dependency{
		Name:  name,
		Type:  reflect.TypeFor[T](),
		Value: value,
	}
}

// Declaration is the compile-time facet of a Dependency.
type Declaration struct {
	Name string
	Type reflect.Type
}

// Binding is the evaluation-time facet of a Dependency.
type Binding struct {
	Name  string
	Value any
}

// Declaration returns the compile-time facet.
func (d Dependency) Declaration() Declaration {
	return Declaration{Name: d.Name, Type: d.Type}
}

// Binding returns the evaluation-time facet.
func (d Dependency) Binding() Binding {
	return Binding{Name: d.Name, Value: d.Value}
}

func declarations(deps []Dependency) []Declaration {
	out := make([]Declaration, len(deps))
	for i, d := range deps {
		out[i] = d.Declaration()
	}
	return out
}

func bindings(deps []Dependency) []Binding {
	out := make([]Binding, len(deps))
	for i, d := range deps {
		out[i] = d.Binding()
	}
	return out
}

// validateDependencies enforces the dependency contract: non-empty unique
// names, none reserved, and values assignable to their declared type.
func validateDependencies(deps []Dependency) error {
	seen := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		if d.Name == "" {
			return &MisuseError{Reason: "name is required"}
		}
		if d.Name == ScopeName {
			return &MisuseError{Dependency: d.Name, Reason: "name is reserved"}
		}
		if _, dup := seen[d.Name]; dup {
			return &MisuseError{Dependency: d.Name, Reason: "duplicate name"}
		}
		seen[d.Name] = struct{}{}

		if d.Type == nil {
			return &MisuseError{Dependency: d.Name, Reason: "type is required"}
		}
		if d.Value == nil {
			switch d.Type.Kind() {
			case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				continue
			}
			return &MisuseError{Dependency: d.Name, Reason: "nil value for non-nillable type " + d.Type.String()}
		}
		if vt := reflect.TypeOf(d.Value); !vt.AssignableTo(d.Type) {
			return &MisuseError{Dependency: d.Name, Reason: vt.String() + " is not assignable to " + d.Type.String()}
		}
	}
	return nil
}

// Provider supplies the dependencies for a session, e.g. one conversation
// or one client connection.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: the returned slice is caller-owned; values may be shared.
type Provider interface {
	Dependencies(ctx context.Context, session string) ([]Dependency, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, session string) ([]Dependency, error)

// Dependencies calls f.
func (f ProviderFunc) Dependencies(ctx context.Context, session string) ([]Dependency, error) {
	return f(ctx, session)
}

// StaticProvider returns the same dependencies for every session.
type StaticProvider []Dependency

// Dependencies returns a copy of p.
func (p StaticProvider) Dependencies(context.Context, string) ([]Dependency, error) {
	return append([]Dependency(nil), p...), nil
}
