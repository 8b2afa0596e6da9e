/*
Package metrics collects per-run call statistics. Metrics are kept in a
private registry and can be dumped in the text exposition format for the
node-exporter textfile collector.
*/
package metrics

import (
	"errors"
	"time"

	"github.com/coconut-rwa/coconut/pkg/program"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coconut"

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeConnection  = "connection_error"
	OutcomeTransaction = "transaction_error"
	OutcomeOther       = "error"
)

// Collector holds call metrics of a single run.
type Collector struct {
	reg     *prometheus.Registry
	calls   *prometheus.CounterVec
	confirm *prometheus.HistogramVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Help:      "Number of program method calls by outcome",
				Name:      "calls_total",
				Namespace: namespace,
			},
			[]string{"program", "method", "outcome"},
		),
		confirm: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Help:      "Time from sending a transaction to its confirmation",
				Name:      "confirmation_seconds",
				Namespace: namespace,
				Buckets:   []float64{0.5, 1, 2, 5, 10, 15, 30, 45, 60, 120},
			},
			[]string{"program", "method"},
		),
	}
	c.reg.MustRegister(c.calls, c.confirm)
	return c
}

// Outcome maps a call error to the outcome label.
func Outcome(err error) string {
	var (
		connErr *provider.ConnectionError
		txErr   *program.TransactionError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &connErr):
		return OutcomeConnection
	case errors.As(err, &txErr):
		return OutcomeTransaction
	default:
		return OutcomeOther
	}
}

// Observe records a finished call. Confirmation time is only recorded for
// successful calls. Nil Collector is a no-op.
func (c *Collector) Observe(prog, method string, took time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := Outcome(err)
	c.calls.WithLabelValues(prog, method, outcome).Inc()
	if outcome == OutcomeOK {
		c.confirm.WithLabelValues(prog, method).Observe(took.Seconds())
	}
}

// Gatherer returns the registry for exporting.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.reg
}

// WriteFile atomically writes all metrics to the given file.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}
