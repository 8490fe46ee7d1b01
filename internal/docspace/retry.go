package docspace

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/AltairaLabs/docspace-mcp/internal/errtrace"
)

// RetryPolicy controls how idempotent requests are retried after transport
// errors and throttling or gateway responses. Requests that start backend
// operations are never retried.
type RetryPolicy struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryPolicy returns the policy used when none is configured. Retries
// are off; the delays apply once MaxRetries is raised.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        0,
		InitialDelay:      200 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Delay returns the wait before retry number retry, counted from zero
func (p RetryPolicy) Delay(retry int) time.Duration {
	if retry <= 0 {
		return p.InitialDelay
	}
	delay := float64(p.InitialDelay) * math.Pow(p.BackoffMultiplier, float64(retry))
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

// Validate checks that the policy is usable
func (p RetryPolicy) Validate() error {
	switch {
	case p.MaxRetries < 0:
		return errors.New("max retries must not be negative")
	case p.MaxRetries == 0:
		return nil
	case p.InitialDelay <= 0:
		return errors.New("initial retry delay must be positive")
	case p.MaxDelay < p.InitialDelay:
		return errors.New("max retry delay must not be below the initial delay")
	case p.BackoffMultiplier < 1:
		return fmt.Errorf("backoff multiplier must be at least 1, got %g", p.BackoffMultiplier)
	}
	return nil
}

// WithRetryPolicy replaces the default retry policy
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

func (c *Client) applyRetry() {
	if c.retry.MaxRetries == 0 {
		return
	}
	c.rc.SetRetryCount(c.retry.MaxRetries).
		SetRetryWaitTime(c.retry.InitialDelay).
		SetRetryMaxWaitTime(c.retry.MaxDelay).
		SetRetryAfter(c.retryAfter).
		AddRetryCondition(retryable).
		AddRetryHook(func(resp *resty.Response, err error) {
			attrs := []any{"error", err}
			if resp != nil && resp.Request != nil {
				attrs = append(attrs,
					"method", resp.Request.Method,
					"url", resp.Request.URL,
					"status", resp.StatusCode(),
					"attempt", resp.Request.Attempt)
			}
			c.logger.Debug("retrying docspace request", attrs...)
		})
}

// retryAfter honours a Retry-After header in seconds and otherwise backs
// off by the policy
func (c *Client) retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	if resp != nil {
		if s := resp.Header().Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second, nil
			}
		}
	}
	attempt := 1
	if resp != nil && resp.Request != nil {
		attempt = resp.Request.Attempt
	}
	return c.retry.Delay(attempt - 1), nil
}

func retryable(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodHead:
	default:
		return false
	}
	if err != nil {
		return !errtrace.IsCanceled(err)
	}
	switch resp.StatusCode() {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// restyLogger routes resty's own diagnostics into slog
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
