package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/docspace-mcp/internal/audit"
	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/logging"
	"github.com/AltairaLabs/docspace-mcp/internal/metrics"
	"github.com/AltairaLabs/docspace-mcp/internal/server"
	"github.com/AltairaLabs/docspace-mcp/internal/transport"
)

const serverName = "docspace-mcp"

// app holds the process-level inputs shared by every command
type app struct {
	debug     bool
	logFormat string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	loadConfig func() (*config.Config, error)
}

func newApp() *app {
	return &app{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.Load,
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   serverName,
		Short: "MCP server for the DocSpace API",
		Long: `docspace-mcp exposes DocSpace files, folders, rooms and people as MCP tools.

Configuration is read from DOCSPACE_* environment variables and an optional
.env file. Without a subcommand the transport is taken from DOCSPACE_TRANSPORT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), "")
		},
	}

	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (json, text, pretty); overrides DOCSPACE_LOG_FORMAT")

	root.AddCommand(
		newStdioCommand(a),
		newHTTPCommand(a),
		newVersionCommand(a),
	)
	return root
}

func newStdioCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), config.TransportStdio)
		},
	}
}

func newHTTPCommand(a *app) *cobra.Command {
	var protocol string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve MCP over SSE and streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch protocol {
			case config.TransportHTTP, config.TransportSSE, config.TransportStreamable:
			default:
				return fmt.Errorf("unknown http protocol %q", protocol)
			}
			return a.run(cmd.Context(), protocol)
		},
	}
	cmd.Flags().StringVar(&protocol, "protocol", config.TransportHTTP, "protocols to serve (http, sse, streamable)")
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", serverName, version)
			fmt.Fprintf(a.stdout, "  Commit:     %s\n", commit)
			fmt.Fprintf(a.stdout, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// run serves the configured transport until ctx is done. An empty override
// keeps the transport from the configuration.
func (a *app) run(ctx context.Context, override string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if override != "" {
		cfg.Transport = override
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: a.stderr,
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	slog.SetDefault(logger)

	m := metrics.New()
	router := server.NewRouter(cfg, server.Options{Logger: logger, Metrics: m})
	info := server.Info{Name: serverName, Version: version}
	auditLog := audit.New(logger.With("component", "audit"))

	logger.Info("starting docspace-mcp",
		"version", version,
		"transport", cfg.Transport,
		"dynamic", router.Dynamic(),
		"tools", len(router.ListTools()),
	)

	if cfg.Transport == config.TransportStdio {
		ms := server.NewMCPServer(info, router, nil, server.WithAudit(auditLog))
		return ms.ServeStdio(ctx, a.stdin, a.stdout, logger)
	}

	srv, err := transport.New(cfg, router, transport.Options{
		Info:    info,
		Logger:  logger,
		Metrics: m,
		Audit:   auditLog,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
