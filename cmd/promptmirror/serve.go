package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/prompt-mirror/internal/httpapi"
	mirrorserver "github.com/HendryAvila/prompt-mirror/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps := mirrorserver.Deps{
				Analyzer:      a.service,
				MaxInputChars: a.cfg.MaxInputChars,
				Logger:        a.logger,
			}
			// Presets are optional: analysis keeps working without them.
			store, err := a.openPresets()
			if err != nil {
				a.logger.Warn("preset catalog disabled", zap.Error(err))
			} else {
				defer store.Close()
				deps.Presets = store
			}

			s := mirrorserver.New(deps)
			a.logger.Info("serving MCP over stdio", zap.String("version", mirrorserver.Version))
			return server.ServeStdio(s)
		},
	}
}

func newHTTPCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			deps := httpapi.Deps{
				Analyzer:      a.service,
				Gatherer:      a.registry,
				MaxInputChars: a.cfg.MaxInputChars,
				Version:       mirrorserver.Version,
				Logger:        a.logger,
			}
			store, err := a.openPresets()
			if err != nil {
				a.logger.Warn("preset catalog disabled", zap.Error(err))
			} else {
				defer store.Close()
				deps.Presets = store
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return httpapi.New(httpapi.Config{Addr: addr, Debug: a.verbose}, deps).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config http.addr)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "promptmirror v%s\n", mirrorserver.Version)
		},
	}
}
