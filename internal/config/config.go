package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable read by Load
const EnvPrefix = "DOCSPACE_"

// Transport names
const (
	TransportStdio      = "stdio"
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
	TransportHTTP       = "http"
)

// Config holds all application configuration
type Config struct {
	Transport string `env:"TRANSPORT" envDefault:"stdio"`

	DocSpace DocSpaceConfig
	Server   ServerConfig
	Tools    ToolsConfig
	Session  SessionConfig
	Resolver ResolverConfig
	HTTP     HTTPConfig
	OAuth    OAuthConfig
	Log      LogConfig
}

// DocSpaceConfig holds the DocSpace API endpoint and credentials
type DocSpaceConfig struct {
	BaseURL        string        `env:"BASE_URL"`
	APIKey         string        `env:"API_KEY"`
	AuthToken      string        `env:"AUTH_TOKEN"`
	Username       string        `env:"USERNAME"`
	Password       string        `env:"PASSWORD"`
	UserAgent      string        `env:"USER_AGENT" envDefault:"docspace-mcp"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RetryMax       int           `env:"RETRY_MAX" envDefault:"0"`
	RetryDelay     time.Duration `env:"RETRY_DELAY" envDefault:"200ms"`
	RetryMaxDelay  time.Duration `env:"RETRY_MAX_DELAY" envDefault:"5s"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"127.0.0.1"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	KeepAlive       time.Duration `env:"KEEP_ALIVE" envDefault:"25s"`
}

// ToolsConfig selects which tools are exposed
type ToolsConfig struct {
	Dynamic       bool     `env:"DYNAMIC" envDefault:"false"`
	Toolsets      []string `env:"TOOLSETS" envDefault:"all"`
	EnabledTools  []string `env:"ENABLED_TOOLS"`
	DisabledTools []string `env:"DISABLED_TOOLS"`
}

// SessionConfig holds the transport session lifetime settings
type SessionConfig struct {
	TTL      time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	Interval time.Duration `env:"SESSION_INTERVAL" envDefault:"1m"`
}

// ResolverConfig holds the operation polling settings
type ResolverConfig struct {
	Limit int           `env:"RESOLVER_LIMIT" envDefault:"20"`
	Delay time.Duration `env:"RESOLVER_DELAY" envDefault:"100ms"`
}

// HTTPConfig holds the CORS and rate-limit settings for the HTTP transports
type HTTPConfig struct {
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*"`
	CORSMaxAge  int      `env:"CORS_MAX_AGE" envDefault:"86400"`
	RateLimit   float64  `env:"RATE_LIMIT" envDefault:"10"`
	RateBurst   int      `env:"RATE_BURST" envDefault:"20"`
}

// OAuthConfig holds the bearer-token protection settings for the HTTP transports
type OAuthConfig struct {
	Enabled  bool     `env:"OAUTH_ENABLED" envDefault:"false"`
	Issuer   string   `env:"OAUTH_ISSUER"`
	Resource string   `env:"OAUTH_RESOURCE"`
	Audience string   `env:"OAUTH_AUDIENCE"`
	Secret   string   `env:"OAUTH_SECRET"`
	Scopes   []string `env:"OAUTH_SCOPES"`
}

// LogConfig holds the logger settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and parses the environment into a Config.
// The returned Config carries every value that could be parsed even when an
// error is returned.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return parse(env.Options{Prefix: EnvPrefix})
}

// LoadFrom parses the given environment into a Config without touching the
// process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Transport {
	case TransportStdio, TransportSSE, TransportStreamable, TransportHTTP:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown transport %q", c.Transport))
	}

	result = multierror.Append(result, c.validateDocSpace())

	for _, ts := range c.Tools.Toolsets {
		if ts != "all" && !IsToolset(ts) {
			result = multierror.Append(result, fmt.Errorf(ErrToolsetNotFound, ts))
		}
	}
	for _, name := range slices.Concat(c.Tools.EnabledTools, c.Tools.DisabledTools) {
		if !IsTool(name) {
			result = multierror.Append(result, fmt.Errorf(ErrToolNotFound, name))
		}
	}

	if c.Resolver.Limit < 1 {
		result = multierror.Append(result, fmt.Errorf("resolver limit must be positive, got %d", c.Resolver.Limit))
	}
	if c.Resolver.Delay < 0 {
		result = multierror.Append(result, errors.New("resolver delay must not be negative"))
	}
	if c.DocSpace.RetryMax < 0 {
		result = multierror.Append(result, fmt.Errorf("retry max must not be negative, got %d", c.DocSpace.RetryMax))
	}
	if c.DocSpace.RetryMax > 0 && c.DocSpace.RetryMaxDelay < c.DocSpace.RetryDelay {
		result = multierror.Append(result, errors.New("retry max delay must not be below the retry delay"))
	}
	if c.Session.TTL < 0 {
		result = multierror.Append(result, errors.New("session ttl must not be negative"))
	}
	if c.Session.Interval < 0 {
		result = multierror.Append(result, errors.New("session interval must not be negative"))
	}

	if c.OAuth.Enabled {
		if c.Transport == TransportStdio {
			result = multierror.Append(result, errors.New("oauth requires an http transport"))
		}
		if c.OAuth.Secret == "" {
			result = multierror.Append(result, errors.New("oauth secret is required"))
		}
		if c.OAuth.Resource == "" {
			result = multierror.Append(result, errors.New("oauth resource is required"))
		}
	}

	return result.ErrorOrNil()
}

func (c *Config) validateDocSpace() error {
	var result *multierror.Error

	if c.DocSpace.BaseURL == "" {
		result = multierror.Append(result, errors.New("base url is required"))
	} else if u, err := url.Parse(c.DocSpace.BaseURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid base url: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result = multierror.Append(result, fmt.Errorf("base url must be http or https, got %q", u.Scheme))
	}

	modes := 0
	if c.DocSpace.APIKey != "" {
		modes++
	}
	if c.DocSpace.AuthToken != "" {
		modes++
	}
	if c.DocSpace.Username != "" || c.DocSpace.Password != "" {
		modes++
		if c.DocSpace.Username == "" || c.DocSpace.Password == "" {
			result = multierror.Append(result, errors.New("username and password must be set together"))
		}
	}
	switch {
	case modes > 1:
		result = multierror.Append(result, errors.New("set at most one authentication mode"))
	case modes == 0 && !c.OAuth.Enabled:
		result = multierror.Append(result, errors.New("no credentials configured"))
	}

	return result.ErrorOrNil()
}

// Enabled returns the effective allow-list of tool names in
// presentation order. Toolsets select the candidates, enabled tools narrow
// them and disabled tools are removed last.
func (t ToolsConfig) Enabled() []string {
	toolsets := t.Toolsets
	if len(toolsets) == 0 || slices.Contains(toolsets, "all") {
		toolsets = AllToolsets()
	}

	names := []string{}
	for _, ts := range AllToolsets() {
		if !slices.Contains(toolsets, ts) {
			continue
		}
		for _, name := range ToolsetTools(ts) {
			if len(t.EnabledTools) > 0 && !slices.Contains(t.EnabledTools, name) {
				continue
			}
			if slices.Contains(t.DisabledTools, name) {
				continue
			}
			names = append(names, name)
		}
	}
	return names
}

// Addr returns the host:port the HTTP transports listen on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// HasTransport reports whether the configured transport serves the named protocol
func (c *Config) HasTransport(name string) bool {
	if c.Transport == TransportHTTP {
		return name == TransportSSE || name == TransportStreamable
	}
	return strings.EqualFold(c.Transport, name)
}
