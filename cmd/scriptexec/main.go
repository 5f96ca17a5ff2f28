// Command scriptexec runs script snippets from files, an interactive
// prompt, or MCP clients.
//
// Usage:
//
//	scriptexec [options] run FILE|-
//	scriptexec [options] repl
//	scriptexec [options] watch FILE
//	scriptexec [options] mcp
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitError carries the exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stderr)
	stop()

	var exitErr *ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		}
		os.Exit(exitErr.Code)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, output io.Writer) error {
	fs := flag.NewFlagSet("scriptexec", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
scriptexec - run script snippets with bound dependencies.

Usage:
  scriptexec [options] run FILE|-   run a snippet file, or stdin
  scriptexec [options] repl         interactive prompt; an empty line runs the input
  scriptexec [options] watch FILE   re-run FILE whenever it changes
  scriptexec [options] mcp          serve MCP over stdio

Options:
`)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Path to a YAML configuration file.")
	logLevel := fs.String("log-level", "", "Override log.level: debug, info, warn or error.")
	dev := fs.Bool("dev", false, "Use the development log format.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return &ExitError{Code: 2}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *dev {
		cfg.Log.Development = true
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "run", "repl", "watch", "mcp":
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cmd)}
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	switch cmd {
	case "run":
		if len(rest) != 1 {
			return &ExitError{Code: 2, Message: "usage: scriptexec run FILE|-"}
		}
		return a.runFile(ctx, rest[0], stdin)
	case "repl":
		return a.repl(ctx)
	case "watch":
		if len(rest) != 1 {
			return &ExitError{Code: 2, Message: "usage: scriptexec watch FILE"}
		}
		return a.watch(ctx, rest[0])
	default:
		return a.serveMCP(ctx)
	}
}

// runFile runs the snippet in path, or stdin for "-".
func (a *app) runFile(ctx context.Context, path string, stdin io.Reader) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 - path comes from the command line
	}
	if err != nil {
		return fmt.Errorf("read snippet: %w", err)
	}

	res, err := a.execute(ctx, path, string(data))
	if err != nil {
		return err
	}
	if a.print.result(res) {
		return &ExitError{Code: 1}
	}
	return nil
}
