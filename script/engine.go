package script

import (
	"context"
	"fmt"
)

// Artifact is an engine's compiled, immutable program. An artifact may be
// evaluated any number of times, concurrently.
type Artifact any

// Source is the input of the compile phase.
type Source struct {
	// Text is the transformed source.
	Text string

	// File is the internal file name the engine must attach to positions and
	// stack frames originating from Text.
	File string
}

// CompileResult is the outcome of Engine.Compile. Compilation succeeded when
// Artifact is non-nil; Diagnostics may be present either way.
type CompileResult struct {
	Artifact    Artifact
	Diagnostics []Diagnostic
}

// OK reports whether compilation produced an artifact.
func (r CompileResult) OK() bool {
	return r.Artifact != nil
}

// Dialect describes the surface syntax the transformer has to produce for an
// engine.
type Dialect struct {
	// ImportPrefix marks import lines, e.g. "import ".
	ImportPrefix string

	// Opener returns the line that opens the task wrapper, bound to the
	// scope dependency named scope.
	Opener func(scope string) string

	// Closer is the line that closes the task wrapper.
	Closer string

	// ScriptFile is the logical file name shown to users in stack frames.
	ScriptFile string

	// Ignorable lists message prefixes of debug diagnostics that are never
	// reported.
	Ignorable []string
}

func (d Dialect) validate() error {
	if d.Opener == nil {
		return fmt.Errorf("%w: dialect opener is required", ErrConfiguration)
	}
	if d.Closer == "" {
		return fmt.Errorf("%w: dialect closer is required", ErrConfiguration)
	}
	return nil
}

// Engine is the pluggable compiler/runtime. Both methods behave as pure
// functions of their inputs.
//
// Compile must:
//   - report positions in the coordinates of Source.Text
//   - return a nil Artifact together with diagnostics when the source does
//     not compile
//   - reserve the error return for failures unrelated to the snippet
//
// Evaluate runs the artifact with the given bindings. The wrapper produced
// by the transformer makes the raw value a *Task; raised snippet errors are
// returned as *Exception so the reporter can map their frames.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation; an interrupted evaluation returns an error.
// - Ownership: declarations and bindings are read-only; values are shared by reference.
type Engine interface {
	// Dialect returns the syntax the transformer must target.
	Dialect() Dialect

	// Compile turns transformed source into an artifact.
	Compile(ctx context.Context, src Source, decls []Declaration) (CompileResult, error)

	// Evaluate runs an artifact produced by Compile.
	Evaluate(ctx context.Context, artifact Artifact, binds []Binding) (any, error)
}
