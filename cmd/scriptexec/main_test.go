package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestRun_File(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	ok := writeFile(t, "ok.js", "const x = 20\nx * 2")
	if err := run(ctx, []string{"-log-level", "error", "run", ok}, nil, &out); err != nil {
		t.Errorf("run(ok) error = %v", err)
	}

	failing := writeFile(t, "fail.js", `throw new Error("must fail")`)
	if code := exitCode(run(ctx, []string{"-log-level", "error", "run", failing}, nil, &out)); code != 1 {
		t.Errorf("run(fail) exit code = %d, want 1", code)
	}
}

func TestRun_Stdin(t *testing.T) {
	var out bytes.Buffer
	stdin := strings.NewReader(`tools.call("host:now", {})`)
	if err := run(context.Background(), []string{"-log-level", "error", "run", "-"}, stdin, &out); err != nil {
		t.Errorf("run(-) error = %v", err)
	}
}

func TestRun_Usage(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"help", []string{"-h"}, 0},
		{"no command", nil, 2},
		{"unknown command", []string{"nope"}, 2},
		{"unknown flag", []string{"-nope"}, 2},
		{"run without file", []string{"run"}, 2},
		{"watch without file", []string{"watch"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := exitCode(run(ctx, tt.args, nil, &out)); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestRun_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-log-level", "loud", "run", "-"}, strings.NewReader("1"), &out)
	if err == nil || exitCode(err) != -1 {
		t.Errorf("run() error = %v, want a configuration error", err)
	}
}

func TestReplBuffer(t *testing.T) {
	var b replBuffer

	if _, ok := b.add(""); ok {
		t.Error("empty input should not submit")
	}
	if _, ok := b.add("const x = 1"); ok {
		t.Error("a non-empty line should not submit")
	}
	b.add("x")
	snippet, ok := b.add("  ")
	if !ok || snippet != "const x = 1\nx" {
		t.Errorf("add(blank) = %q, %t", snippet, ok)
	}
	if !b.empty() {
		t.Error("buffer should be empty after submitting")
	}

	b.add("dropped")
	b.reset()
	if !b.empty() {
		t.Error("reset() should clear the buffer")
	}
}
