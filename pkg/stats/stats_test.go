package stats_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-lbp/pkg/stats"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	c := stats.NewCollector()
	c.Observe("swap", nil)
	c.Observe("swap", errors.New("failed"))
	c.Observe("simulate", nil)

	require.Equal(t, float64(2), testutil.ToFloat64(c.Operations("swap")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.Errors("swap")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.Operations("simulate")))
	require.Equal(t, float64(0), testutil.ToFloat64(c.Errors("simulate")))

	var nilCollector *stats.Collector
	require.NotPanics(t, func() { nilCollector.Observe("swap", nil) })
}

func TestDump(t *testing.T) {
	t.Parallel()

	c := stats.NewCollector()
	c.Observe("swap", nil)

	path := filepath.Join(t.TempDir(), "stats")
	require.NoError(t, stats.Dump(path, c.Gatherer()))
	require.NoError(t, stats.Dump(path, c.Gatherer()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `lbp_operations_total{op="swap"} 1`)
	require.Contains(t, string(content), "# TYPE lbp_operation_errors_total counter")
}
