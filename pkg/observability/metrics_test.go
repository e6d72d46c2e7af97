package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyBuyanov/ExpertSystem"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))

	eng, err := expertsystem.Open(context.Background(), "../../examples/systems/headache.xml",
		expertsystem.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	eng.SetAnswer(5)
	eng.SetAnswer(1)
	eng.CurrentData()
	eng.Reset()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NodeVisits.WithLabelValues("Headache", "question")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NodeVisits.WithLabelValues("Headache", "answer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Answers.WithLabelValues("Headache", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Answers.WithLabelValues("Headache", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Finished.WithLabelValues("Headache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Resets.WithLabelValues("Headache")))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	out := buf.String()
	assert.Contains(t, out, "msg=finish")
	assert.Contains(t, out, "accepted=false")
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}
