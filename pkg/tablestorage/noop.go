package tablestorage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// NoopDecisionSink is a no-operation implementation of DecisionSink
type NoopDecisionSink struct{}

// NewNoopDecisionSink creates a new no-operation decision sink
func NewNoopDecisionSink() DecisionSink {
	return &NoopDecisionSink{}
}

// Emit does nothing and returns nil
func (n *NoopDecisionSink) Emit(ctx context.Context, decision SelectionDecision) error {
	return nil
}

// LoggingDecisionSink writes every decision to a structured logger.
// Useful for development and debugging.
type LoggingDecisionSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLoggingDecisionSink creates a sink logging at debug level.
// A nil logger uses slog.Default().
func NewLoggingDecisionSink(logger *slog.Logger) DecisionSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingDecisionSink{logger: logger, level: slog.LevelDebug}
}

// Emit logs the decision
func (l *LoggingDecisionSink) Emit(ctx context.Context, decision SelectionDecision) error {
	l.logger.Log(ctx, l.level, "storage selection decision",
		"decision_id", decision.ID.String(),
		"namespace", decision.Namespace,
		"table", decision.Table,
		"type", decision.Type.String(),
		"strategy", decision.Strategy,
	)
	return nil
}

// MultiSink fans a decision out to several sinks and joins their errors
type MultiSink []DecisionSink

// Emit forwards the decision to every sink. A panicking member is reported
// as an error and does not stop the remaining members.
func (m MultiSink) Emit(ctx context.Context, decision SelectionDecision) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := emitRecovered(ctx, sink, decision); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func emitRecovered(ctx context.Context, sink DecisionSink, decision SelectionDecision) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decision sink %T panicked: %v", sink, r)
		}
	}()
	return sink.Emit(ctx, decision)
}
