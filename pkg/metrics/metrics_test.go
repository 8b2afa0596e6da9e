package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coconut-rwa/coconut/pkg/program"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	require.Equal(t, OutcomeOK, Outcome(nil))
	require.Equal(t, OutcomeConnection, Outcome(&provider.ConnectionError{Err: errors.New("refused")}))
	require.Equal(t, OutcomeTransaction, Outcome(&program.TransactionError{Method: "initialize", Err: errors.New("bad")}))
	require.Equal(t, OutcomeOther, Outcome(errors.New("oops")))
}

func TestCollector(t *testing.T) {
	c := New()
	c.Observe("Coconut", "initialize", 2*time.Second, nil)
	c.Observe("Coconut", "initialize", time.Second, &program.TransactionError{Err: program.ErrFault})
	c.Observe("Coconut", "initialize", 0, &provider.ConnectionError{Err: errors.New("refused")})

	require.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("Coconut", "initialize", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("Coconut", "initialize", OutcomeTransaction)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("Coconut", "initialize", OutcomeConnection)))
	require.Equal(t, 1, testutil.CollectAndCount(c.confirm))

	path := filepath.Join(t.TempDir(), "coconut.prom")
	require.NoError(t, c.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `coconut_calls_total{method="initialize",outcome="ok",program="Coconut"} 1`)
	require.Contains(t, string(data), "coconut_confirmation_seconds_count")

	var nilCollector *Collector
	nilCollector.Observe("Coconut", "initialize", 0, nil)
}
