package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/scriptexec/mcpserver"
)

func (a *app) serveMCP(ctx context.Context) error {
	srv, err := mcpserver.New(mcpserver.Config{
		Executor: a.exec,
		Provider: a.provider,
		Name:     a.cfg.MCP.Name,
		Version:  version,
		Logger:   a.log.Named("mcp"),
	})
	if err != nil {
		return err
	}
	a.log.Info("Serving MCP on stdio")
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// version is set at build time.
var version = "dev"
