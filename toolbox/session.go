package toolbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/tooldoc"

	"github.com/jonwraymond/scriptexec/script"
)

// DependencyName is the name a Session is bound under.
const DependencyName = "tools"

// CallRecord describes one tool call made through a Session.
type CallRecord struct {
	ToolID   string         `json:"toolId"`
	Args     map[string]any `json:"args,omitempty"`
	Result   any            `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// Session is the view of a Catalog given to one submission. Its methods
// take no context: they run under the context the session was created
// with, which ends with the submission.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: calls beyond the budget fail with ErrLimitExceeded.
type Session struct {
	ctx      context.Context
	catalog  *Catalog
	maxCalls int

	mu     sync.Mutex
	calls  []CallRecord
	stdout strings.Builder
}

// NewSession creates a session. maxCalls <= 0 means unlimited.
func (c *Catalog) NewSession(ctx context.Context, maxCalls int) *Session {
	return &Session{ctx: ctx, catalog: c, maxCalls: maxCalls}
}

// Dependency binds the session under DependencyName.
func (s *Session) Dependency() script.Dependency {
	return script.NewDependency(DependencyName, s)
}

// Search finds tools matching query.
func (s *Session) Search(query string, limit int) ([]index.Summary, error) {
	return s.catalog.Search(s.ctx, query, limit)
}

// Namespaces lists the available tool namespaces.
func (s *Session) Namespaces() ([]string, error) {
	return s.catalog.Namespaces(s.ctx)
}

// Describe returns the full documentation of a tool.
func (s *Session) Describe(id string) (tooldoc.ToolDoc, error) {
	return s.catalog.Describe(s.ctx, id, tooldoc.DetailFull)
}

// Summary returns the one-line documentation of a tool.
func (s *Session) Summary(id string) (string, error) {
	doc, err := s.catalog.Describe(s.ctx, id, tooldoc.DetailSummary)
	if err != nil {
		return "", err
	}
	return doc.Summary, nil
}

// Examples returns up to maxExamples usage examples of a tool.
func (s *Session) Examples(id string, maxExamples int) ([]tooldoc.ToolExample, error) {
	return s.catalog.Examples(s.ctx, id, maxExamples)
}

// Call invokes a tool and records the call.
func (s *Session) Call(id string, args map[string]any) (any, error) {
	s.mu.Lock()
	if s.maxCalls > 0 && len(s.calls) >= s.maxCalls {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: max tool calls (%d) exceeded", ErrLimitExceeded, s.maxCalls)
	}
	// reserve the slot before running the tool
	s.calls = append(s.calls, CallRecord{ToolID: id, Args: deepCopyArgs(args)})
	slot := len(s.calls) - 1
	s.mu.Unlock()

	start := time.Now()
	result, err := s.catalog.Execute(s.ctx, id, args)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &s.calls[slot]
	rec.Duration = time.Since(start)
	if err != nil {
		rec.Error = err.Error()
		return nil, err
	}
	rec.Result = deepCopyValue(result)
	return result, nil
}

// Println writes to the captured output of the session.
func (s *Session) Println(args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(&s.stdout, args...)
}

// Calls returns a copy of the recorded calls.
func (s *Session) Calls() []CallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CallRecord(nil), s.calls...)
}

// Stdout returns the captured output.
func (s *Session) Stdout() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stdout.String()
}

// Provider returns a script.Provider handing a fresh session to every
// submission.
func (c *Catalog) Provider(maxCalls int) script.Provider {
	return script.ProviderFunc(func(ctx context.Context, _ string) ([]script.Dependency, error) {
		return []script.Dependency{c.NewSession(ctx, maxCalls).Dependency()}, nil
	})
}
