package main

import (
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Log.Level != "info" || !cfg.Tools.Enabled || cfg.Tools.MaxCalls != 50 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeFile(t, "config.yaml", `
log:
  level: debug
executor:
  max_concurrency: 4
  cache_size: 16
engine:
  strict: true
tools:
  enabled: false
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Executor.MaxConcurrency != 4 || cfg.Executor.CacheSize != 16 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Engine.Strict || cfg.Tools.Enabled {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Tools.MaxCalls != 50 || cfg.MCP.Name != "scriptexec" {
		t.Errorf("unset keys should keep their defaults: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "log: [", "parse config"},
		{"bad level", "log:\n  level: loud", "log.level"},
		{"negative concurrency", "executor:\n  max_concurrency: -1", "max_concurrency"},
		{"negative calls", "tools:\n  max_calls: -1", "max_calls"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "config.yaml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("loadConfig() error = %v, want %q", err, tt.want)
			}
		})
	}

	if _, err := loadConfig("/does/not/exist.yaml"); err == nil {
		t.Error("loadConfig() of a missing file should fail")
	}
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		log, err := newLogger(LogConfig{Level: "warn", Development: dev})
		if err != nil {
			t.Fatalf("newLogger() error = %v", err)
		}
		if log.Core().Enabled(-1) {
			t.Error("debug should be disabled at warn level")
		}
	}
}
