package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memohai/telegraph-relay/internal/version"
)

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestPing(t *testing.T) {
	e := echo.New()
	NewPingHandler(nil, t.TempDir()).Register(e)

	rec := serve(e, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(e, http.MethodHead, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthMissingStagingDir(t *testing.T) {
	e := echo.New()
	NewPingHandler(nil, filepath.Join(t.TempDir(), "gone")).Register(e)

	rec := serve(e, http.MethodHead, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVersion(t *testing.T) {
	e := echo.New()
	NewVersionHandler().Register(e)

	rec := serve(e, http.MethodGet, "/version")
	require.Equal(t, http.StatusOK, rec.Code)
	var info version.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "relay_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	e := echo.New()
	NewMetricsHandler(reg).Register(e)

	rec := serve(e, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "relay_test_total 1")
}
