package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordReconcile(t *testing.T) {
	m := NewMetrics()

	m.RecordReconcile(2*time.Millisecond, 1, 3)
	m.RecordReconcile(time.Millisecond, 0, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reconcilePasses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusMismatches))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.staffOut))
}

func TestMetricsCorrectiveWrites(t *testing.T) {
	m := NewMetrics()

	m.RecordCorrectiveWrite(WriteOutcomeSucceeded)
	m.RecordCorrectiveWrite(WriteOutcomeSucceeded)
	m.RecordCorrectiveWrite(WriteOutcomeDropped)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.correctiveWrites.WithLabelValues(WriteOutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.correctiveWrites.WithLabelValues(WriteOutcomeDropped)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.correctiveWrites.WithLabelValues(WriteOutcomeFailed)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/x", "GET", 200, time.Second)
		m.RecordError("/x", "GET", "INTERNAL_ERROR")
		m.RecordReconcile(time.Second, 1, 1)
		m.RecordCorrectiveWrite(WriteOutcomeFailed)
	})
	assert.Nil(t, m.Registry())
}
