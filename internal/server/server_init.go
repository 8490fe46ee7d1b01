package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/errtrace"
	"github.com/AltairaLabs/docspace-mcp/internal/metrics"
	"github.com/AltairaLabs/docspace-mcp/internal/resolver"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
	"github.com/AltairaLabs/docspace-mcp/internal/tools/handlers/files"
	"github.com/AltairaLabs/docspace-mcp/internal/tools/handlers/folders"
	"github.com/AltairaLabs/docspace-mcp/internal/tools/handlers/people"
	"github.com/AltairaLabs/docspace-mcp/internal/tools/handlers/rooms"
	"github.com/AltairaLabs/docspace-mcp/internal/types"
	"github.com/AltairaLabs/docspace-mcp/internal/uploader"
)

// Deps are the collaborators the toolsets call into
type Deps struct {
	API      types.API
	Resolver types.OperationResolver
	Uploader types.ContentUploader
}

// Options carries what NewRouter needs beyond the configuration
type Options struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	HTTPClient *http.Client
}

// NewDeps builds the DocSpace client, the operation resolver and the
// chunked uploader described by cfg
func NewDeps(cfg *config.Config, opts Options) (Deps, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := []docspace.Option{
		docspace.WithLogger(logger),
		docspace.WithRetryPolicy(docspace.RetryPolicy{
			MaxRetries:        cfg.DocSpace.RetryMax,
			InitialDelay:      cfg.DocSpace.RetryDelay,
			MaxDelay:          cfg.DocSpace.RetryMaxDelay,
			BackoffMultiplier: 2,
		}),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, docspace.WithHTTPClient(opts.HTTPClient))
	}
	client, err := docspace.New(docspace.Config{
		BaseURL:   cfg.DocSpace.BaseURL,
		APIKey:    cfg.DocSpace.APIKey,
		AuthToken: cfg.DocSpace.AuthToken,
		Username:  cfg.DocSpace.Username,
		Password:  cfg.DocSpace.Password,
		UserAgent: cfg.DocSpace.UserAgent,
		Timeout:   cfg.DocSpace.RequestTimeout,
	}, clientOpts...)
	if err != nil {
		return Deps{}, fmt.Errorf("create docspace client: %w", err)
	}

	resolverOpts := []resolver.Option{
		resolver.WithLimit(cfg.Resolver.Limit),
		resolver.WithDelay(cfg.Resolver.Delay),
		resolver.WithLogger(logger),
	}
	if opts.Metrics != nil {
		resolverOpts = append(resolverOpts, resolver.WithPollCounter(opts.Metrics.ResolverPolls()))
	}

	return Deps{
		API:      client,
		Resolver: resolver.New(client, resolverOpts...),
		Uploader: uploader.New(client, uploader.WithChunkSize(config.DefaultChunkSize), uploader.WithLogger(logger)),
	}, nil
}

// Toolsets returns every toolset in presentation order
func Toolsets(d Deps, logger *slog.Logger) []tools.Toolset {
	return []tools.Toolset{
		files.NewHandler(d.API, d.Resolver, d.Uploader, logger).Toolset(),
		folders.NewHandler(d.API, d.Resolver).Toolset(),
		rooms.NewHandler(d.API, d.Resolver).Toolset(),
		people.NewHandler(d.API).Toolset(),
	}
}

// NewRouter builds the tool router described by cfg. An invalid
// configuration does not fail startup: every tool is still listed, and
// every call answers with the configuration error.
func NewRouter(cfg *config.Config, opts Options) *tools.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	routerOpts := []tools.RouterOption{
		tools.WithDynamic(cfg.Tools.Dynamic),
		tools.WithLogger(logger),
	}
	if opts.Metrics != nil {
		routerOpts = append(routerOpts, tools.WithObserver(opts.Metrics))
	}

	deps, err := newValidDeps(cfg, opts)
	if err != nil {
		logger.Error(config.ErrMisconfigured, "error", errtrace.Format(err))
		misconfigured := fmt.Errorf("%s: %w", config.ErrMisconfigured, err)
		return tools.NewRouter(tools.Misconfigured(Toolsets(Deps{}, logger), misconfigured), routerOpts...)
	}

	routerOpts = append(routerOpts, tools.WithAllowList(cfg.Tools.Enabled()))
	return tools.NewRouter(Toolsets(deps, logger), routerOpts...)
}

func newValidDeps(cfg *config.Config, opts Options) (Deps, error) {
	if err := cfg.Validate(); err != nil {
		return Deps{}, err
	}
	return NewDeps(cfg, opts)
}
