package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewIntakeMetrics(registry)
	require.NoError(t, err)

	m.Transition("rating_selection", "low_rating_form")
	m.Submission("high", false)
	m.Submission("high", false)
	m.RateLimited()
	m.PersistError("low")
	m.Handoff("ios")
	m.Clipboard("clipboard_api", "ok")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("rating_selection", "low_rating_form")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues("high", "false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rateLimited))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.persistErrors.WithLabelValues("low")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.handoffs.WithLabelValues("ios")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.clipboard.WithLabelValues("clipboard_api", "ok")))
}

func TestNewIntakeMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewIntakeMetrics(registry)
	require.NoError(t, err)

	_, err = NewIntakeMetrics(registry)
	assert.Error(t, err)
}
