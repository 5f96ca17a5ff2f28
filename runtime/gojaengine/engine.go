package gojaengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"

	"github.com/jonwraymond/scriptexec/script"
)

const importPrefix = "import "

// DefaultScriptFile is the file name frames are attributed to.
const DefaultScriptFile = "script.js"

// Config configures an Engine.
type Config struct {
	// Modules resolves import lines. Defaults to DefaultModules().
	Modules *ModuleRegistry

	// Strict compiles snippets in strict mode.
	Strict bool

	// FieldNameTag is the struct tag used to name Go fields in scripts.
	// Defaults to "json".
	FieldNameTag string

	// ScriptFile is the logical file name shown in stack traces.
	// Defaults to DefaultScriptFile.
	ScriptFile string
}

func (c *Config) applyDefaults() {
	if c.Modules == nil {
		c.Modules = DefaultModules()
	}
	if c.FieldNameTag == "" {
		c.FieldNameTag = "json"
	}
	if c.ScriptFile == "" {
		c.ScriptFile = DefaultScriptFile
	}
}

// Engine compiles and evaluates JavaScript snippets.
//
// Contract:
// - Concurrency: safe for concurrent use; every evaluation gets its own runtime.
// - Context: cancellation interrupts a running evaluation.
type Engine struct {
	cfg Config
}

// New creates an engine.
func New(cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{cfg: cfg}
}

// Modules returns the registry imports are resolved against.
func (e *Engine) Modules() *ModuleRegistry {
	return e.cfg.Modules
}

// Dialect implements script.Engine.
func (e *Engine) Dialect() script.Dialect {
	return script.Dialect{
		ImportPrefix: importPrefix,
		Opener: func(scope string) string {
			return scope + ".async(() => {"
		},
		Closer:     "})",
		ScriptFile: e.cfg.ScriptFile,
		Ignorable:  []string{"Resolved module"},
	}
}

// program is the artifact produced by Compile.
type program struct {
	prg     *goja.Program
	imports []importBinding
}

// Compile implements script.Engine.
func (e *Engine) Compile(ctx context.Context, src script.Source, decls []script.Declaration) (script.CompileResult, error) {
	if err := ctx.Err(); err != nil {
		return script.CompileResult{}, err
	}

	resolved := e.resolveImports(src.Text, decls)
	diags := append(resolved.diags, declarationDiagnostics(decls)...)

	tree, err := parser.ParseFile(nil, src.File, resolved.text, 0, parser.WithDisableSourceMaps)
	if err != nil {
		return script.CompileResult{Diagnostics: append(diags, parseDiagnostics(err)...)}, nil
	}
	if hasErrors(diags) {
		return script.CompileResult{Diagnostics: diags}, nil
	}

	returnLastExpression(tree)

	prg, err := goja.CompileAST(tree, e.cfg.Strict)
	if err != nil {
		return script.CompileResult{Diagnostics: append(diags, compileDiagnostic(err))}, nil
	}
	return script.CompileResult{
		Artifact:    &program{prg: prg, imports: resolved.bindings},
		Diagnostics: diags,
	}, nil
}

func declarationDiagnostics(decls []script.Declaration) []script.Diagnostic {
	var diags []script.Diagnostic
	for _, d := range decls {
		if !identifier.MatchString(d.Name) {
			diags = append(diags, script.Diagnostic{
				Severity: script.SeverityError,
				Message:  fmt.Sprintf("Dependency '%s' is not a valid identifier.", d.Name),
			})
		}
	}
	return diags
}

func hasErrors(diags []script.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= script.SeverityError {
			return true
		}
	}
	return false
}

func parseDiagnostics(err error) []script.Diagnostic {
	var list parser.ErrorList
	if errors.As(err, &list) {
		diags := make([]script.Diagnostic, 0, len(list))
		for _, pe := range list {
			diags = append(diags, parseDiagnostic(pe))
		}
		return diags
	}
	var pe *parser.Error
	if errors.As(err, &pe) {
		return []script.Diagnostic{parseDiagnostic(pe)}
	}
	return []script.Diagnostic{{Severity: script.SeverityError, Message: err.Error()}}
}

func parseDiagnostic(pe *parser.Error) script.Diagnostic {
	return script.Diagnostic{
		Severity: script.SeverityError,
		Message:  pe.Message,
		Location: &script.Location{
			Start: script.Position{Line: pe.Position.Line, Column: pe.Position.Column},
		},
	}
}

func compileDiagnostic(err error) script.Diagnostic {
	d := script.Diagnostic{Severity: script.SeverityError, Message: err.Error()}

	var syntax *goja.CompilerSyntaxError
	var reference *goja.CompilerReferenceError
	var ce *goja.CompilerError
	switch {
	case errors.As(err, &syntax):
		ce = &syntax.CompilerError
		d.Message = "SyntaxError: " + ce.Message
	case errors.As(err, &reference):
		ce = &reference.CompilerError
		d.Message = "ReferenceError: " + ce.Message
	}
	if ce != nil && ce.File != nil {
		pos := ce.File.Position(ce.Offset)
		d.Location = &script.Location{Start: script.Position{Line: pos.Line, Column: pos.Column}}
	}
	return d
}

// returnLastExpression turns the trailing expression statement of the task
// wrapper into a return statement, so the task yields the snippet's last
// value.
func returnLastExpression(prg *ast.Program) {
	body := wrapperBody(prg)
	if body == nil || len(body.List) == 0 {
		return
	}
	last := len(body.List) - 1
	if es, ok := body.List[last].(*ast.ExpressionStatement); ok {
		body.List[last] = &ast.ReturnStatement{Return: es.Idx0(), Argument: es.Expression}
	}
}

// wrapperBody finds the block passed to scope.async by the wrapper, which
// is always the last top-level statement.
func wrapperBody(prg *ast.Program) *ast.BlockStatement {
	if len(prg.Body) == 0 {
		return nil
	}
	es, ok := prg.Body[len(prg.Body)-1].(*ast.ExpressionStatement)
	if !ok {
		return nil
	}
	call, ok := es.Expression.(*ast.CallExpression)
	if !ok || len(call.ArgumentList) != 1 {
		return nil
	}
	dot, ok := call.Callee.(*ast.DotExpression)
	if !ok || dot.Identifier.Name != "async" {
		return nil
	}
	if id, ok := dot.Left.(*ast.Identifier); !ok || id.Name != script.ScopeName {
		return nil
	}
	fn, ok := call.ArgumentList[0].(*ast.ArrowFunctionLiteral)
	if !ok {
		return nil
	}
	block, _ := fn.Body.(*ast.BlockStatement)
	return block
}
