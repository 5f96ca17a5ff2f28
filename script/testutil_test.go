package script

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// testDialect mirrors a compiled language whose tasks are opened with
// `scope.async<Any?> {` and closed with `}`.
var testDialect = Dialect{
	ImportPrefix: "import ",
	Opener: func(scope string) string {
		return scope + ".async<Any?> {"
	},
	Closer:     "}",
	ScriptFile: "script.kts",
	Ignorable: []string{
		"Using JDK home inferred from java.home",
		"Loading modules:",
	},
}

var (
	identifierLine = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	throwLine      = regexp.MustCompile(`^throw (\w+)\("([^"]*)"\)$`)
	delayLine      = regexp.MustCompile(`^delay\((\d+)\)$`)
)

// fakeEngine is a tiny compiler/runtime for a line-oriented language:
//
//   - a bare identifier must name a declared dependency, its value is the
//     dependency value
//   - a double-quoted line is a string literal
//   - `throw Class("message")` raises
//   - `delay(ms)` suspends on the bound scope
//
// The value of the last body line is the task result. compileFn and
// evaluateFn replace the built-in behavior when set.
type fakeEngine struct {
	mu sync.Mutex

	dialect    Dialect
	compileFn  func(src Source, decls []Declaration) (CompileResult, error)
	evaluateFn func(ctx context.Context, artifact Artifact, binds []Binding) (any, error)

	compileCalls  []Source
	lastDecls     []Declaration
	evaluateCalls int
	lastBinds     []Binding
	started       chan struct{}
	finished      atomic.Int64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{dialect: testDialect}
}

func (f *fakeEngine) Dialect() Dialect {
	return f.dialect
}

func (f *fakeEngine) Compile(_ context.Context, src Source, decls []Declaration) (CompileResult, error) {
	f.mu.Lock()
	f.compileCalls = append(f.compileCalls, src)
	f.lastDecls = decls
	fn := f.compileFn
	f.mu.Unlock()

	if fn != nil {
		return fn(src, decls)
	}

	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Name] = true
	}

	var diags []Diagnostic
	for i, line := range strings.Split(src.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !identifierLine.MatchString(trimmed) || declared[trimmed] {
			continue
		}
		col := strings.Index(line, trimmed) + 1
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Unresolved reference '%s'.", trimmed),
			Location: &Location{
				Start: Position{Line: i + 1, Column: col},
				End:   &Position{Line: i + 1, Column: col + len(trimmed)},
			},
		})
	}
	if len(diags) > 0 {
		return CompileResult{Diagnostics: diags}, nil
	}
	return CompileResult{Artifact: src}, nil
}

func (f *fakeEngine) Evaluate(ctx context.Context, artifact Artifact, binds []Binding) (any, error) {
	f.mu.Lock()
	f.evaluateCalls++
	f.lastBinds = binds
	fn := f.evaluateFn
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if fn != nil {
		return fn(ctx, artifact, binds)
	}

	src := artifact.(Source)
	values := make(map[string]any, len(binds))
	for _, b := range binds {
		values[b.Name] = b.Value
	}
	scope := values[ScopeName].(*Scope)

	lines := strings.Split(src.Text, "\n")
	opener := -1
	for i, line := range lines {
		if line == f.dialect.Opener(ScopeName) {
			opener = i
		}
	}
	body := lines[opener+1 : len(lines)-1]

	defer f.finished.Add(1)
	return scope.Async(func() (any, error) {
		var result any = Unit{}
		for i, line := range body {
			trimmed := strings.TrimSpace(line)
			transformedLine := opener + 2 + i
			switch {
			case trimmed == "":
				continue
			case strings.HasPrefix(trimmed, `"`):
				result = strings.Trim(trimmed, `"`)
			case throwLine.MatchString(trimmed):
				m := throwLine.FindStringSubmatch(trimmed)
				return nil, &Exception{
					Class:   "java.lang." + m[1],
					Message: m[2],
					Frames: []Frame{
						{Function: "invokeSuspend", File: src.File, Line: transformedLine},
						{Function: "resumeWith", File: "ContinuationImpl.kt", Line: 33},
						{Function: "run", File: "DispatchedTask.kt", Line: 100},
					},
				}
			case delayLine.MatchString(trimmed):
				ms, _ := strconv.Atoi(delayLine.FindStringSubmatch(trimmed)[1])
				if err := scope.Delay(ctx, time.Duration(ms)*time.Millisecond); err != nil {
					return nil, err
				}
			default:
				result = values[trimmed]
			}
		}
		return result, nil
	}), nil
}

func (f *fakeEngine) compileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.compileCalls)
}

// mockLogger records log lines.
type mockLogger struct {
	mu    sync.Mutex
	lines []string
}

func (m *mockLogger) Logf(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
}

func (m *mockLogger) contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func newTestExecutor(engine Engine) (*Executor, error) {
	return New(Config{Engine: engine})
}
