// Package metrics counts storage selection decisions with Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendant/table-storage/pkg/tablestorage"
)

// PrometheusSink increments tablestorage_selections_total{type,strategy}
type PrometheusSink struct {
	selections *prometheus.CounterVec
}

// NewPrometheusSink creates the sink and registers its collector.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tablestorage",
		Name:      "selections_total",
		Help:      "Storage selection decisions by chosen backend type and strategy.",
	}, []string{"type", "strategy"})

	if err := reg.Register(selections); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector tablestorage_selections_total already registered as %T", are.ExistingCollector)
		}
		selections = existing
	}

	return &PrometheusSink{selections: selections}, nil
}

// Emit counts the decision
func (p *PrometheusSink) Emit(ctx context.Context, decision tablestorage.SelectionDecision) error {
	c, err := p.selections.GetMetricWithLabelValues(decision.Type.String(), decision.Strategy)
	if err != nil {
		return err
	}
	c.Inc()
	return nil
}
