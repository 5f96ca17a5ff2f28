package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/search"

	"github.com/jonwraymond/scriptexec/toolbox"
)

// newCatalog builds the tool catalog offered to snippets.
func newCatalog(ctx context.Context) (*toolbox.Catalog, error) {
	cat := toolbox.NewCatalog(toolbox.CatalogConfig{
		Index: index.NewInMemoryIndex(index.IndexOptions{
			Searcher: search.NewBM25Searcher(search.BM25Config{}),
		}),
	})
	if err := cat.Register(hostBackend()); err != nil {
		return nil, err
	}
	if err := cat.Sync(ctx); err != nil {
		return nil, err
	}
	return cat, nil
}

func hostBackend() *toolbox.LocalBackend {
	b := toolbox.NewLocalBackend("host")
	b.Register(toolbox.ToolDef{
		Name:        "getenv",
		Description: "Returns the value of an environment variable",
		Tags:        []string{"environment", "host"},
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
			},
			"required": []any{"name"},
		},
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			name, ok := args["name"].(string)
			if !ok || name == "" {
				return nil, fmt.Errorf("name is required")
			}
			return os.Getenv(name), nil
		},
	})
	b.Register(toolbox.ToolDef{
		Name:        "now",
		Description: "Returns the current time in RFC 3339 format",
		Tags:        []string{"time", "clock", "host"},
		Handler: func(context.Context, map[string]any) (any, error) {
			return time.Now().Format(time.RFC3339), nil
		},
	})
	b.Register(toolbox.ToolDef{
		Name:        "hostname",
		Description: "Returns the host name of the machine",
		Tags:        []string{"host"},
		Handler: func(context.Context, map[string]any) (any, error) {
			return os.Hostname()
		},
	})
	return b
}
