package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonwraymond/scriptexec/runtime/gojaengine"
	"github.com/jonwraymond/scriptexec/script"
	"github.com/jonwraymond/scriptexec/toolbox"
)

// app holds the wired components shared by all subcommands.
type app struct {
	cfg      Config
	log      *zap.Logger
	exec     *script.Executor
	catalog  *toolbox.Catalog
	provider script.Provider
	print    *printer
}

func newApp(ctx context.Context, cfg Config) (*app, error) {
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	exec, err := script.New(script.Config{
		Engine: gojaengine.New(gojaengine.Config{
			Strict:     cfg.Engine.Strict,
			ScriptFile: cfg.Engine.ScriptFile,
		}),
		Logger:         script.NewZapLogger(log.Named("executor")),
		MaxConcurrency: cfg.Executor.MaxConcurrency,
		CacheSize:      cfg.Executor.CacheSize,
	})
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		exec:     exec,
		provider: script.StaticProvider(nil),
		print:    newPrinter(),
	}
	if cfg.Tools.Enabled {
		a.catalog, err = newCatalog(ctx)
		if err != nil {
			_ = a.close()
			return nil, fmt.Errorf("tools: %w", err)
		}
		a.provider = a.catalog.Provider(cfg.Tools.MaxCalls)
	}
	return a, nil
}

// execute runs one snippet with the dependencies of session.
func (a *app) execute(ctx context.Context, session, snippet string) (script.Result, error) {
	deps, err := a.provider.Dependencies(ctx, session)
	if err != nil {
		return nil, err
	}
	return a.exec.Execute(ctx, snippet, deps...)
}

func (a *app) close() error {
	err := a.exec.Close()
	if a.catalog != nil {
		if stopErr := a.catalog.Backends().StopAll(); err == nil {
			err = stopErr
		}
	}
	_ = a.log.Sync()
	return err
}
