package toolbox

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestLocalBackend_ListTools(t *testing.T) {
	b := mathBackend()
	b.Register(ToolDef{Name: "abs", Handler: func(context.Context, map[string]any) (any, error) { return 0, nil }})

	tools, err := b.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 2 || tools[0].Name != "abs" || tools[1].Name != "add" {
		t.Fatalf("ListTools() = %+v", tools)
	}
	add := tools[1]
	if add.Namespace != "math" {
		t.Errorf("Namespace = %q, want math", add.Namespace)
	}
	if add.Description != "Adds two numbers" {
		t.Errorf("Description = %q", add.Description)
	}
	if !slices.Contains(add.Tags, "math") || slices.Contains(add.Tags, "Math") {
		t.Errorf("Tags = %v, want normalized tags", add.Tags)
	}
}

func TestLocalBackend_Execute(t *testing.T) {
	b := mathBackend()
	ctx := context.Background()

	got, err := b.Execute(ctx, "add", map[string]any{"a": 1, "b": 2.5})
	if err != nil || got != 3.5 {
		t.Errorf("Execute(add) = %v, %v", got, err)
	}

	if _, err := b.Execute(ctx, "missing", nil); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Execute(missing) error = %v, want ErrToolNotFound", err)
	}

	b.SetEnabled(false)
	if _, err := b.Execute(ctx, "add", nil); !errors.Is(err, ErrBackendDisabled) {
		t.Errorf("Execute() on disabled backend error = %v, want ErrBackendDisabled", err)
	}
	b.SetEnabled(true)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := b.Execute(cancelled, "add", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() with cancelled ctx error = %v", err)
	}

	b.Unregister("add")
	if _, err := b.Execute(ctx, "add", nil); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Execute() after Unregister error = %v", err)
	}
}

func TestLocalBackend_ToolDocs(t *testing.T) {
	docs := mathBackend().ToolDocs()
	entry, ok := docs["add"]
	if !ok {
		t.Fatal("ToolDocs() missing add")
	}
	if entry.Summary != "Adds two numbers" || len(entry.Examples) != 1 {
		t.Errorf("ToolDocs()[add] = %+v", entry)
	}
}
