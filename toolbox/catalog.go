package toolbox

import (
	"context"
	"fmt"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
)

// CatalogConfig configures a Catalog.
type CatalogConfig struct {
	// Index is the search index. Defaults to an in-memory index.
	Index index.Index

	// Docs serves tool documentation. Defaults to an in-memory store over
	// Index.
	Docs tooldoc.Store

	// Backends holds the tool backends. Defaults to an empty registry.
	Backends *Registry
}

// docRegistrar is implemented by doc stores that accept documentation.
type docRegistrar interface {
	RegisterDoc(id string, entry tooldoc.DocEntry) error
}

// documented is implemented by backends that document their tools.
type documented interface {
	ToolDocs() map[string]tooldoc.DocEntry
}

// Catalog combines tool discovery, documentation and execution across
// backends.
//
// Contract:
// - Concurrency: safe for concurrent use.
type Catalog struct {
	index    index.Index
	docs     tooldoc.Store
	backends *Registry
}

// NewCatalog creates a catalog.
func NewCatalog(cfg CatalogConfig) *Catalog {
	if cfg.Index == nil {
		cfg.Index = index.NewInMemoryIndex()
	}
	if cfg.Docs == nil {
		cfg.Docs = tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: cfg.Index})
	}
	if cfg.Backends == nil {
		cfg.Backends = NewRegistry()
	}
	return &Catalog{index: cfg.Index, docs: cfg.Docs, backends: cfg.Backends}
}

// Register adds a backend. Call Sync to make its tools discoverable.
func (c *Catalog) Register(b Backend) error {
	return c.backends.Register(b)
}

// Backends returns the backend registry.
func (c *Catalog) Backends() *Registry {
	return c.backends
}

// Sync indexes the tools of every enabled backend and registers their
// documentation.
func (c *Catalog) Sync(ctx context.Context) error {
	for _, b := range c.backends.ListEnabled() {
		tools, err := b.ListTools(ctx)
		if err != nil {
			return fmt.Errorf("list tools of %s: %w", b.Name(), err)
		}
		for _, tool := range tools {
			if tool.Namespace == "" {
				tool.Namespace = b.Name()
			}
			if err := c.index.RegisterTool(tool, model.NewLocalBackend(b.Name())); err != nil {
				return fmt.Errorf("index %s:%s: %w", tool.Namespace, tool.Name, err)
			}
		}

		d, ok := b.(documented)
		reg, canRegister := c.docs.(docRegistrar)
		if !ok || !canRegister {
			continue
		}
		for name, entry := range d.ToolDocs() {
			if err := reg.RegisterDoc(FormatToolID(b.Name(), name), entry); err != nil {
				return fmt.Errorf("document %s:%s: %w", b.Name(), name, err)
			}
		}
	}
	return nil
}

// Search finds tools matching query.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]index.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.index.Search(query, limit)
}

// Namespaces lists the namespaces of indexed tools.
func (c *Catalog) Namespaces(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.index.ListNamespaces()
}

// Describe returns the documentation of a tool.
func (c *Catalog) Describe(ctx context.Context, id string, level tooldoc.DetailLevel) (tooldoc.ToolDoc, error) {
	if err := ctx.Err(); err != nil {
		return tooldoc.ToolDoc{}, err
	}
	return c.docs.DescribeTool(id, level)
}

// Examples returns up to maxExamples usage examples of a tool.
func (c *Catalog) Examples(ctx context.Context, id string, maxExamples int) ([]tooldoc.ToolExample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.docs.ListExamples(id, maxExamples)
}

// Execute invokes the tool identified by "namespace:name".
func (c *Catalog) Execute(ctx context.Context, id string, args map[string]any) (any, error) {
	namespace, tool, err := ParseToolID(id)
	if err != nil {
		return nil, err
	}
	b, ok := c.backends.Get(namespace)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotFound, namespace)
	}
	if !b.Enabled() {
		return nil, fmt.Errorf("%w: %s", ErrBackendDisabled, namespace)
	}
	return b.Execute(ctx, tool, args)
}

// ParseToolID splits a tool ID into namespace and tool name. Both parts
// are required.
func ParseToolID(id string) (namespace, tool string, err error) {
	namespace, tool, err = model.ParseToolID(id)
	if err != nil || namespace == "" || tool == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidToolID, id)
	}
	return namespace, tool, nil
}

// FormatToolID builds a tool ID from namespace and tool name.
func FormatToolID(namespace, tool string) string {
	if namespace == "" {
		return tool
	}
	return namespace + ":" + tool
}
