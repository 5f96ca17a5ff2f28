package toolbox

import (
	"context"
	"sort"
	"sync"

	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// ToolDef defines a local tool with its handler.
type ToolDef struct {
	Name         string
	Title        string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
	Annotations  *mcp.ToolAnnotations
	Tags         []string

	// Notes and Examples feed the tool documentation.
	Notes    string
	Examples []tooldoc.ToolExample

	Handler HandlerFunc
}

// LocalBackend serves tools implemented by in-process handlers.
type LocalBackend struct {
	name     string
	mu       sync.RWMutex
	enabled  bool
	handlers map[string]ToolDef
}

// NewLocalBackend creates an enabled local backend.
func NewLocalBackend(name string) *LocalBackend {
	return &LocalBackend{
		name:     name,
		enabled:  true,
		handlers: make(map[string]ToolDef),
	}
}

// Kind returns "local".
func (b *LocalBackend) Kind() string {
	return string(model.BackendKindLocal)
}

// Name returns the backend instance name.
func (b *LocalBackend) Name() string {
	return b.name
}

// Enabled reports whether the backend serves calls.
func (b *LocalBackend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the backend.
func (b *LocalBackend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Register adds or replaces a tool.
func (b *LocalBackend) Register(def ToolDef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[def.Name] = def
}

// Unregister removes a tool.
func (b *LocalBackend) Unregister(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, name)
}

// ListTools returns the registered tools sorted by name.
func (b *LocalBackend) ListTools(_ context.Context) ([]model.Tool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Tool, 0, len(b.handlers))
	for _, def := range b.handlers {
		out = append(out, model.Tool{
			Tool: mcp.Tool{
				Name:         def.Name,
				Title:        def.Title,
				Description:  def.Description,
				InputSchema:  def.InputSchema,
				OutputSchema: def.OutputSchema,
				Annotations:  def.Annotations,
			},
			Namespace: b.name,
			Tags:      model.NormalizeTags(def.Tags),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ToolDocs returns documentation entries keyed by tool name.
func (b *LocalBackend) ToolDocs() map[string]tooldoc.DocEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]tooldoc.DocEntry, len(b.handlers))
	for name, def := range b.handlers {
		out[name] = tooldoc.DocEntry{
			Summary:  def.Description,
			Notes:    def.Notes,
			Examples: def.Examples,
		}
	}
	return out
}

// Execute invokes a tool handler.
func (b *LocalBackend) Execute(ctx context.Context, tool string, args map[string]any) (any, error) {
	b.mu.RLock()
	enabled := b.enabled
	def, ok := b.handlers[tool]
	b.mu.RUnlock()

	if !enabled {
		return nil, ErrBackendDisabled
	}
	if !ok || def.Handler == nil {
		return nil, ErrToolNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return def.Handler(ctx, args)
}

// Start is a no-op for local backends.
func (b *LocalBackend) Start(context.Context) error {
	return nil
}

// Stop is a no-op for local backends.
func (b *LocalBackend) Stop() error {
	return nil
}
