package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.IncRequest("photo", "success")
	m.IncRequest("photo", "success")
	m.IncRequest("document", "failed")
	m.AddBytesFetched(512)
	m.AddBytesFetched(-1)
	m.ObserveStage("fetch", "ok", 150*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("photo", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("document", "failed")))
	assert.Equal(t, 512.0, testutil.ToFloat64(m.bytesFetched))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))

	end := m.Begin()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	end()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestMustNewMetricsReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNewMetrics(reg)
	second := MustNewMetrics(reg)

	require.Same(t, first.requests, second.requests)
	second.IncRequest("video", "success")
	assert.Equal(t, 1.0, testutil.ToFloat64(first.requests.WithLabelValues("video", "success")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncRequest("photo", "success")
		m.ObserveStage("fetch", "ok", time.Second)
		m.AddBytesFetched(10)
		m.Begin()()
	})
}
