// Package resolver turns asynchronous DocSpace operations into synchronous
// results by polling their status until every tracked operation is done.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
)

// ErrNothingToResolve is returned when Resolve is called without operations
var ErrNothingToResolve = errors.New("nothing to resolve")

// StatusFetcher returns every active operation of the current user
type StatusFetcher interface {
	GetOperationStatuses(ctx context.Context) ([]docspace.Operation, *docspace.Response, error)
}

// Response is what a Resolve call observed
type Response struct {
	// Responses holds every raw status response in poll order
	Responses []*docspace.Response
	// Operations holds the latest snapshot of every tracked operation, in
	// first-seen order and without duplicate ids
	Operations []docspace.Operation
}

// Error reports operations that did not finish cleanly. Response carries
// everything observed before giving up.
type Error struct {
	Response   *Response
	Unresolved []string
	Total      int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%d out of %d operations are unresolved", len(e.Unresolved), e.Total)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithLimit sets how many status polls are made at most
func WithLimit(n int) Option {
	return func(r *Resolver) {
		r.limit = n
	}
}

// WithDelay sets the pause between two polls
func WithDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.delay = d
	}
}

// WithClock replaces the clock used for the pause between polls
func WithClock(c clockwork.Clock) Option {
	return func(r *Resolver) {
		r.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithPollCounter counts every status poll
func WithPollCounter(c prometheus.Counter) Option {
	return func(r *Resolver) {
		r.polls = c
	}
}

// Resolver polls operation statuses. It holds no per-call state, so one
// Resolver may serve concurrent calls.
type Resolver struct {
	fetcher StatusFetcher
	limit   int
	delay   time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	polls   prometheus.Counter
}

// New creates a Resolver with the default limit and delay
func New(fetcher StatusFetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		limit:   config.DefaultResolverLimit,
		delay:   config.DefaultResolverDelay,
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type state struct {
	id   string
	err  string
	done bool
}

// Resolve polls until every operation is done, the poll limit is reached or
// ctx is cancelled. Operations without an id are not tracked.
func (r *Resolver) Resolve(ctx context.Context, ops ...docspace.Operation) (*Response, error) {
	if len(ops) == 0 {
		return nil, ErrNothingToResolve
	}

	states := make([]state, 0, len(ops))
	for _, op := range ops {
		if op.ID == "" {
			continue
		}
		states = append(states, state{id: op.ID, err: op.Error, done: op.Done()})
	}

	res := &Response{}
	seen := make(map[string]int)

	var loopErr error
	for attempt := 1; attempt <= r.limit; attempt++ {
		current, raw, err := r.fetcher.GetOperationStatuses(ctx)
		if r.polls != nil {
			r.polls.Inc()
		}
		if raw != nil {
			res.Responses = append(res.Responses, raw)
		}
		if err != nil {
			loopErr = fmt.Errorf("get operation statuses: %w", err)
			break
		}

		for _, op := range current {
			if op.ID == "" {
				continue
			}
			for i := range states {
				if states[i].id != op.ID {
					continue
				}
				states[i].err = op.Error
				states[i].done = op.Done()
				if pos, ok := seen[op.ID]; ok {
					res.Operations[pos] = op
				} else {
					seen[op.ID] = len(res.Operations)
					res.Operations = append(res.Operations, op)
				}
			}
		}

		if allDone(states) {
			break
		}

		r.logger.DebugContext(ctx, "operations pending", "attempt", attempt, "limit", r.limit)

		if attempt == r.limit {
			break
		}
		if err := r.wait(ctx); err != nil {
			loopErr = err
			break
		}
	}

	var unresolved []string
	var failed *multierror.Error
	for _, s := range states {
		if s.err != "" {
			failed = multierror.Append(failed, fmt.Errorf("operation %s: %s", s.id, s.err))
			failed.ErrorFormat = joinFormat
		}
		if s.err != "" || !s.done {
			unresolved = append(unresolved, s.id)
		}
	}

	if loopErr != nil {
		return nil, &Error{Response: res, Unresolved: unresolved, Total: len(states), Err: loopErr}
	}
	if len(unresolved) > 0 {
		return nil, &Error{Response: res, Unresolved: unresolved, Total: len(states), Err: failed.ErrorOrNil()}
	}
	return res, nil
}

func (r *Resolver) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("wait for operations: %w", ctx.Err())
	case <-r.clock.After(r.delay):
		return nil
	}
}

func joinFormat(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func allDone(states []state) bool {
	for _, s := range states {
		if !s.done {
			return false
		}
	}
	return true
}
