package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration of the command.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Executor ExecutorConfig `yaml:"executor"`
	Engine   EngineConfig   `yaml:"engine"`
	Tools    ToolsConfig    `yaml:"tools"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type ExecutorConfig struct {
	MaxConcurrency int `yaml:"max_concurrency"`
	CacheSize      int `yaml:"cache_size"`
}

type EngineConfig struct {
	Strict     bool   `yaml:"strict"`
	ScriptFile string `yaml:"script_file"`
}

type ToolsConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxCalls int  `yaml:"max_calls"`
}

type MCPConfig struct {
	Name string `yaml:"name"`
}

func defaultConfig() Config {
	return Config{
		Log:   LogConfig{Level: "info"},
		Tools: ToolsConfig{Enabled: true, MaxCalls: 50},
		MCP:   MCPConfig{Name: "scriptexec"},
	}
}

// loadConfig reads path over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the command line
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Executor.MaxConcurrency < 0 {
		return fmt.Errorf("executor.max_concurrency must not be negative")
	}
	if c.Executor.CacheSize < 0 {
		return fmt.Errorf("executor.cache_size must not be negative")
	}
	if c.Tools.MaxCalls < 0 {
		return fmt.Errorf("tools.max_calls must not be negative")
	}
	return nil
}

// newLogger builds the process logger. Logs go to stderr so that stdout
// stays reserved for results and the MCP stdio transport.
func newLogger(c LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
