package toolbox

import (
	"context"
	"errors"

	"github.com/jonwraymond/toolfoundation/model"
)

// Common errors for tool operations.
var (
	ErrBackendNotFound = errors.New("backend not found")
	ErrBackendDisabled = errors.New("backend disabled")
	ErrBackendExists   = errors.New("backend already registered")
	ErrToolNotFound    = errors.New("tool not found in backend")
	ErrInvalidToolID   = errors.New("invalid tool ID format")
	ErrLimitExceeded   = errors.New("limit exceeded")
)

// Backend is a source of tools.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines.
// - Errors: use ErrBackendDisabled/ErrToolNotFound where applicable.
type Backend interface {
	// Kind returns the backend type, e.g. "local".
	Kind() string

	// Name returns the unique instance name. It doubles as the namespace
	// of the backend's tools.
	Name() string

	// Enabled reports whether the backend currently serves calls.
	Enabled() bool

	// ListTools returns the tools of this backend.
	ListTools(ctx context.Context) ([]model.Tool, error)

	// Execute invokes a tool by its name within the backend.
	Execute(ctx context.Context, tool string, args map[string]any) (any, error)

	// Start initializes the backend.
	Start(ctx context.Context) error

	// Stop shuts the backend down.
	Stop() error
}
