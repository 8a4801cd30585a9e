package tablestorage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Option configures a Selector
type Option func(*Selector)

// WithDecisionSink adds a sink that receives every selection decision
func WithDecisionSink(sink DecisionSink) Option {
	return func(s *Selector) {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
}

// WithLogger sets the logger used for decisions and sink failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEmitTimeout bounds how long SelectStorage waits for decision sinks.
// Sinks still running when it passes keep going in the background with a
// cancelled context. Non-positive values are ignored.
func WithEmitTimeout(timeout time.Duration) Option {
	return func(s *Selector) {
		if timeout > 0 {
			s.emitTimeout = timeout
		}
	}
}

// WithClock overrides the time source stamped on decisions
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// Selector is the entry point table-lifecycle operations use to learn which
// backend to target. It holds one strategy for its whole lifetime.
type Selector struct {
	strategy    Strategy
	sinks       []DecisionSink
	logger      *slog.Logger
	now         func() time.Time
	emitTimeout time.Duration
}

// DefaultEmitTimeout is how long a selection waits for its decision sinks
const DefaultEmitTimeout = 100 * time.Millisecond

// New creates a selector around strategy
func New(strategy Strategy, options ...Option) (*Selector, error) {
	if strategy == nil {
		return nil, fmt.Errorf("selection strategy is required")
	}

	s := &Selector{
		strategy:    strategy,
		logger:      slog.Default(),
		now:         time.Now,
		emitTimeout: DefaultEmitTimeout,
	}
	for _, option := range options {
		option(s)
	}

	return s, nil
}

// Strategy returns the configured strategy
func (s *Selector) Strategy() Strategy {
	return s.strategy
}

// SelectStorage returns the backend for namespace.name.
//
// Strategy failures are returned as *SelectionError wrapping the original
// error, so callers must match them with errors.Is or errors.As rather than
// comparing with ==.
func (s *Selector) SelectStorage(ctx context.Context, namespace, name string) (Descriptor, error) {
	d, err := s.strategy.SelectStorage(ctx, namespace, name)
	if err != nil {
		var selErr *SelectionError
		if errors.As(err, &selErr) {
			return Descriptor{}, err
		}
		return Descriptor{}, &SelectionError{
			Namespace: namespace,
			Table:     name,
			Strategy:  s.strategy.Name(),
			Err:       err,
		}
	}

	s.logger.InfoContext(ctx, "selected storage",
		"type", d.Type().String(),
		"namespace", namespace,
		"table", name,
		"strategy", s.strategy.Name(),
	)

	if len(s.sinks) > 0 {
		s.emit(ctx, SelectionDecision{
			ID:        uuid.New(),
			Namespace: namespace,
			Table:     name,
			Type:      d.Type(),
			Strategy:  s.strategy.Name(),
			At:        s.now(),
		})
	}

	return d, nil
}

// emit runs every sink concurrently and returns once they all finish or the
// emit timeout passes, whichever comes first
func (s *Selector) emit(ctx context.Context, decision SelectionDecision) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.emitTimeout)
	defer cancel()

	done := make(chan struct{}, len(s.sinks))
	for _, sink := range s.sinks {
		go func(sink DecisionSink) {
			defer func() { done <- struct{}{} }()
			s.emitOne(ctx, sink, decision)
		}(sink)
	}

	for pending := len(s.sinks); pending > 0; pending-- {
		select {
		case <-done:
		case <-ctx.Done():
			s.logger.WarnContext(ctx, "decision sinks timed out",
				"decision_id", decision.ID.String(),
				"pending", pending,
				"timeout", s.emitTimeout,
			)
			return
		}
	}
}

// emitOne isolates a single sink so its error or panic cannot reach the caller
func (s *Selector) emitOne(ctx context.Context, sink DecisionSink, decision SelectionDecision) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WarnContext(ctx, "decision sink panicked",
				"sink", fmt.Sprintf("%T", sink),
				"decision_id", decision.ID.String(),
				"panic", r,
			)
		}
	}()

	if err := sink.Emit(ctx, decision); err != nil {
		s.logger.WarnContext(ctx, "decision sink failed",
			"sink", fmt.Sprintf("%T", sink),
			"decision_id", decision.ID.String(),
			"err", err,
		)
	}
}
