package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

const (
	replPrompt         = "js> "
	replContinuePrompt = "... "
	replSession        = "repl"
)

// replBuffer collects input lines until an empty line submits them.
type replBuffer struct {
	lines []string
}

// add appends line and returns the snippet to run once the input is
// complete.
func (b *replBuffer) add(line string) (string, bool) {
	if strings.TrimSpace(line) != "" {
		b.lines = append(b.lines, line)
		return "", false
	}
	if len(b.lines) == 0 {
		return "", false
	}
	snippet := strings.Join(b.lines, "\n")
	b.lines = b.lines[:0]
	return snippet, true
}

func (b *replBuffer) reset() {
	b.lines = b.lines[:0]
}

func (b *replBuffer) empty() bool {
	return len(b.lines) == 0
}

func (a *app) repl(ctx context.Context) error {
	homeDir, _ := os.UserHomeDir()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(homeDir, ".scriptexec_history"),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	a.print.notice("Enter a snippet; an empty line runs it. :reset clears the input, :quit exits.")

	var buf replBuffer
	for ctx.Err() == nil {
		if buf.empty() {
			rl.SetPrompt(replPrompt)
		} else {
			rl.SetPrompt(replContinuePrompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				buf.reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch strings.TrimSpace(line) {
		case ":quit", ":exit":
			return nil
		case ":reset":
			buf.reset()
			continue
		}

		snippet, ok := buf.add(line)
		if !ok {
			continue
		}
		res, err := a.execute(ctx, replSession, snippet)
		if err != nil {
			a.print.notice("%v", err)
			continue
		}
		a.print.result(res)
	}
	return nil
}
