// Package session tracks live transport sessions with TTL-based expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc"
)

var (
	// ErrNotFound is returned for unknown session ids
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned for sessions past their expiry
	ErrExpired = errors.New("session expired")
)

// Transport is the connection a session is bound to. Closing it must
// eventually remove the session through Registry.Delete.
type Transport interface {
	Close(ctx context.Context) error
}

// Session is a snapshot of a registry entry. A zero ExpiresAt means the
// session never expires.
type Session struct {
	ID        string
	Transport Transport
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Option customizes a Registry
type Option func(*Registry)

// WithClock replaces the clock used for expiry and the sweep ticker
func WithClock(c clockwork.Clock) Option {
	return func(r *Registry) {
		r.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithGauge tracks the number of stored sessions
func WithGauge(g prometheus.Gauge) Option {
	return func(r *Registry) {
		r.gauge = g
	}
}

// Registry stores sessions by id. Callers only ever see copies.
type Registry struct {
	sessions map[string]Session
	mu       sync.Mutex
	ttl      time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	gauge    prometheus.Gauge
}

// NewRegistry creates a registry whose sessions live for ttl. A zero ttl
// disables expiry.
func NewRegistry(ttl time.Duration, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]Session),
		ttl:      ttl,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a session for id, replacing any previous entry
func (r *Registry) Create(id string, t Transport) Session {
	now := r.clock.Now()
	s := Session{
		ID:        id,
		Transport: t,
		CreatedAt: now,
	}
	if r.ttl > 0 {
		s.ExpiresAt = now.Add(r.ttl)
	}

	r.mu.Lock()
	if _, exists := r.sessions[id]; exists {
		r.logger.Warn("session id collision, replacing entry", "session_id", id)
	}
	r.sessions[id] = s
	r.updateGauge()
	r.mu.Unlock()

	return s
}

// Get returns the session for id. Expired entries stay stored until they are
// deleted, closed or swept.
func (r *Registry) Get(id string) (Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.Expired(r.clock.Now()) {
		return Session{}, fmt.Errorf("%w: %s", ErrExpired, id)
	}
	return s, nil
}

// Delete removes the entry for id
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.sessions, id)
	r.updateGauge()
	return nil
}

// Close closes the transport of id. The entry is left in place: removing it
// is the transport's job once it has shut down.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.Transport == nil {
		return nil
	}
	if err := s.Transport.Close(ctx); err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}
	return nil
}

// Expire closes the session for id when it is past its expiry. Unknown and
// live sessions are left alone.
func (r *Registry) Expire(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok || !s.Expired(r.clock.Now()) {
		return nil
	}
	r.logger.DebugContext(ctx, "session expired", "session_id", id)
	return r.Close(ctx, id)
}

// Clear closes every session concurrently and reports every failure
func (r *Registry) Clear(ctx context.Context) error {
	var (
		mu     sync.Mutex
		result *multierror.Error
	)

	wg := conc.NewWaitGroup()
	for _, id := range r.ids() {
		wg.Go(func() {
			if err := r.Close(ctx, id); err != nil {
				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	return result.ErrorOrNil()
}

// Watch sweeps expired sessions every interval until ctx is done or a sweep
// fails. A zero interval disables the sweep. Cancellation is reported as
// ctx.Err().
func (r *Registry) Watch(ctx context.Context, interval time.Duration) error {
	if interval == 0 {
		return nil
	}

	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if err := r.sweep(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Registry) sweep(ctx context.Context) error {
	var result *multierror.Error
	for _, id := range r.ids() {
		if err := r.Expire(ctx, id); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Len returns the number of stored sessions, expired ones included
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// updateGauge must be called with mu held
func (r *Registry) updateGauge() {
	if r.gauge != nil {
		r.gauge.Set(float64(len(r.sessions)))
	}
}
