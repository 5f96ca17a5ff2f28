package script

import (
	"fmt"
	"strings"
)

// DefaultCacheSize is the number of compiled artifacts kept when
// Config.CacheSize is zero.
const DefaultCacheSize = 128

// Config holds the configuration for an Executor.
type Config struct {
	// Engine is the pluggable compiler/runtime.
	// Required.
	Engine Engine

	// Logger is an optional logger for observability.
	Logger Logger

	// MaxConcurrency bounds the number of submissions running at once.
	// Zero means unbounded; further submissions block until a slot frees.
	MaxConcurrency int

	// CacheSize is the number of compiled artifacts kept for reuse.
	// Zero selects DefaultCacheSize; a negative value disables caching.
	CacheSize int

	// ScriptName is the file name shown for snippet frames in failure
	// reports. Defaults to the engine dialect's ScriptFile.
	ScriptName string
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Engine == nil {
		missing = append(missing, "Engine")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: MaxConcurrency must not be negative", ErrConfiguration)
	}
	return c.Engine.Dialect().validate()
}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.ScriptName == "" {
		c.ScriptName = c.Engine.Dialect().ScriptFile
	}
	if c.ScriptName == "" {
		c.ScriptName = "script"
	}
}
