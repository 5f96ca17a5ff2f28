package toolbox

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/jonwraymond/tooldiscovery/tooldoc"
)

func TestCatalog_SyncIndexesTools(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	results, err := c.Search(ctx, "add", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	found := false
	for _, r := range results {
		if r.ID == "math:add" {
			found = true
		}
	}
	if !found {
		t.Errorf("Search(add) = %+v, want math:add", results)
	}

	namespaces, err := c.Namespaces(ctx)
	if err != nil {
		t.Fatalf("Namespaces() error = %v", err)
	}
	if !slices.Contains(namespaces, "math") {
		t.Errorf("Namespaces() = %v, want math", namespaces)
	}
}

func TestCatalog_Docs(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	doc, err := c.Describe(ctx, "math:add", tooldoc.DetailFull)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if doc.Summary != "Adds two numbers" {
		t.Errorf("Summary = %q", doc.Summary)
	}
	if doc.Tool == nil || doc.Tool.Name != "add" {
		t.Errorf("Tool = %+v", doc.Tool)
	}

	examples, err := c.Examples(ctx, "math:add", 5)
	if err != nil {
		t.Fatalf("Examples() error = %v", err)
	}
	if len(examples) != 1 || examples[0].Title != "One plus two" {
		t.Errorf("Examples() = %+v", examples)
	}
}

func TestCatalog_Execute(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	got, err := c.Execute(ctx, "math:add", map[string]any{"a": 2, "b": 3})
	if err != nil || got != 5.0 {
		t.Errorf("Execute() = %v, %v", got, err)
	}

	tests := []struct {
		id   string
		want error
	}{
		{"add", ErrInvalidToolID},
		{"", ErrInvalidToolID},
		{"nope:add", ErrBackendNotFound},
		{"math:nope", ErrToolNotFound},
	}
	for _, tt := range tests {
		if _, err := c.Execute(ctx, tt.id, nil); !errors.Is(err, tt.want) {
			t.Errorf("Execute(%q) error = %v, want %v", tt.id, err, tt.want)
		}
	}
}

func TestCatalog_DisabledBackend(t *testing.T) {
	c := NewCatalog(CatalogConfig{})
	b := mathBackend()
	b.SetEnabled(false)
	_ = c.Register(b)
	if err := c.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if _, err := c.Execute(context.Background(), "math:add", nil); !errors.Is(err, ErrBackendDisabled) {
		t.Errorf("Execute() error = %v, want ErrBackendDisabled", err)
	}
}

func TestCatalog_HonorsContext(t *testing.T) {
	c := newTestCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Search(ctx, "add", 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Search() error = %v", err)
	}
	if _, err := c.Namespaces(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Namespaces() error = %v", err)
	}
	if _, err := c.Describe(ctx, "math:add", tooldoc.DetailSummary); !errors.Is(err, context.Canceled) {
		t.Errorf("Describe() error = %v", err)
	}
}

func TestFormatToolID(t *testing.T) {
	if got := FormatToolID("math", "add"); got != "math:add" {
		t.Errorf("FormatToolID() = %q", got)
	}
	if got := FormatToolID("", "add"); got != "add" {
		t.Errorf("FormatToolID() = %q", got)
	}
}
