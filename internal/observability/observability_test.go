package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"", "info", "debug", "warn", "error"} {
		logger, err := NewLogger(level)
		require.NoError(t, err, "level %q", level)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger("loud")
	assert.Error(t, err)
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordRow("fnb", OutcomeImported)
	m.RecordRow("fnb", OutcomeImported)
	m.RecordRow("fnb", OutcomeSkipped)
	m.RecordTransaction("income")
	m.IncrBackendError("import_transactions")

	assert.InDelta(t, 2, testutil.ToFloat64(m.importRows.WithLabelValues("fnb", OutcomeImported)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.importRows.WithLabelValues("fnb", OutcomeSkipped)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.transactions.WithLabelValues("income")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.backendErrors.WithLabelValues("import_transactions")), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRow("fnb", OutcomeImported)
	m.RecordTransaction("expense")
	m.IncrBackendError("x")
	m.ObserveImport(time.Second)
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordRow("standard", OutcomeZero)
	m.ObserveImport(20 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "ledgerline.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ledgerline_import_rows_total{bank="standard",outcome="zero_amount"} 1`)
	assert.Contains(t, string(data), "ledgerline_import_duration_seconds_count 1")
}
