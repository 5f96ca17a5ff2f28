package toolbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
)

func number(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("not a number: %T", v)
}

func mathBackend() *LocalBackend {
	b := NewLocalBackend("math")
	b.Register(ToolDef{
		Name:        "add",
		Description: "Adds two numbers",
		Tags:        []string{"Math", "arithmetic"},
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []any{"a", "b"},
		},
		Examples: []tooldoc.ToolExample{
			{Title: "One plus two", Args: map[string]any{"a": 1, "b": 2}},
		},
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			a, err := number(args["a"])
			if err != nil {
				return nil, err
			}
			b, err := number(args["b"])
			if err != nil {
				return nil, err
			}
			return a + b, nil
		},
	})
	return b
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog(CatalogConfig{})
	if err := c.Register(mathBackend()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := c.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	return c
}

// mockBackend records lifecycle calls.
type mockBackend struct {
	name    string
	enabled bool
	started int
	stopped int
	stopErr error
}

func (m *mockBackend) Kind() string  { return "mock" }
func (m *mockBackend) Name() string  { return m.name }
func (m *mockBackend) Enabled() bool { return m.enabled }
func (m *mockBackend) Start(context.Context) error {
	m.started++
	return nil
}
func (m *mockBackend) Stop() error {
	m.stopped++
	return m.stopErr
}
func (m *mockBackend) ListTools(context.Context) ([]model.Tool, error) {
	return nil, nil
}
func (m *mockBackend) Execute(context.Context, string, map[string]any) (any, error) {
	return nil, ErrToolNotFound
}
