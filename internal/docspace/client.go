// Package docspace is a thin client for the DocSpace REST API.
package docspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

// Config holds the endpoint and credentials of a DocSpace portal.
// At most one of APIKey, AuthToken and Username/Password is expected.
type Config struct {
	BaseURL   string
	APIKey    string
	AuthToken string
	Username  string
	Password  string
	UserAgent string
	Timeout   time.Duration
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to one DocSpace portal
type Client struct {
	rc         *resty.Client
	httpClient *http.Client
	tokens     oauth2.TokenSource
	retry      RetryPolicy
	logger     *slog.Logger
}

// New builds a Client for cfg
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}

	c := &Client{
		logger: slog.Default(),
		retry:  DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.rc = resty.NewWithClient(c.httpClient)
	} else {
		c.rc = resty.New()
	}

	if err := c.retry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry policy: %w", err)
	}
	c.rc.SetLogger(restyLogger{c.logger})
	c.rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	c.rc.SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		c.rc.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Timeout > 0 {
		c.rc.SetTimeout(cfg.Timeout)
	}

	switch {
	case cfg.APIKey != "":
		c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	case cfg.AuthToken != "":
		c.rc.SetHeader("Authorization", cfg.AuthToken)
	case cfg.Username != "":
		c.rc.SetBasicAuth(cfg.Username, cfg.Password)
	}

	c.rc.OnBeforeRequest(c.authorize)
	c.applyRetry()

	return c, nil
}

// authorize attaches a bearer token. A token carried by the request context
// takes precedence over the configured API key.
func (c *Client) authorize(_ *resty.Client, r *resty.Request) error {
	src := c.tokens
	if tok, ok := TokenFromContext(r.Context()); ok {
		src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
	}
	if src == nil {
		return nil
	}

	t, err := src.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}
	r.SetAuthScheme(t.Type())
	r.SetAuthToken(t.AccessToken)
	return nil
}

// Response is the raw HTTP response of a DocSpace call
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the media type of the response without parameters
func (r *Response) ContentType() string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.TrimSpace(strings.Split(ct, ";")[0])
	}
	return mt
}

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Response   json.RawMessage `json:"response"`
	Status     int             `json:"status"`
	StatusCode int             `json:"statusCode"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// request is one API call
type request struct {
	method string
	path   string
	query  map[string]string
	body   any
	prep   func(*resty.Request)
}

// do executes req and, when result is non-nil, decodes the "response" field
// of the JSON envelope into it.
func (c *Client) do(ctx context.Context, req request, result any) (*Response, error) {
	r := c.rc.R().SetContext(ctx)
	if req.query != nil {
		r.SetQueryParams(req.query)
	}
	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}
	if req.prep != nil {
		req.prep(r)
	}

	start := time.Now()
	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	res := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	c.logger.DebugContext(ctx, "docspace request",
		"method", req.method,
		"path", req.path,
		"status", res.StatusCode,
		"duration", time.Since(start))

	if resp.IsError() {
		return res, fmt.Errorf("%s %s: %w", req.method, req.path, statusError(res))
	}

	if result != nil {
		if err := decode(res.Body, result); err != nil {
			return res, fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}
	}
	return res, nil
}

func statusError(res *Response) *StatusError {
	e := &StatusError{StatusCode: res.StatusCode}
	var env envelope
	if err := json.Unmarshal(res.Body, &env); err == nil && env.Error != nil {
		e.Message = env.Error.Message
	}
	return e
}

func decode(body []byte, result any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Error != nil && env.Error.Message != "" {
		return errors.New(env.Error.Message)
	}
	if len(env.Response) == 0 {
		return errors.New("response field is missing")
	}
	dec := json.NewDecoder(bytes.NewReader(env.Response))
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("failed to decode response field: %w", err)
	}
	return nil
}

type tokenKey struct{}

// WithToken returns a context whose requests authenticate with the given
// bearer token instead of the configured credentials.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken
func TokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey{}).(string)
	return tok, ok && tok != ""
}
