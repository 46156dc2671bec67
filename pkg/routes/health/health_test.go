package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) VerifyConnectivity(context.Context) error {
	return p.err
}

func doRequest(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy graph", func(t *testing.T) {
		e := echo.New()
		checker := NewChecker(&fakePinger{}, "1.2.3")
		checker.RegisterRoutes(e)

		rec := doRequest(e, "/api/v1/health")
		require.Equal(t, http.StatusOK, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		assert.Equal(t, "healthy", status.Checks["graph_database"].Status)
	})

	t.Run("unreachable graph", func(t *testing.T) {
		e := echo.New()
		checker := NewChecker(&fakePinger{err: errors.New("connection refused")}, "1.2.3")
		checker.RegisterRoutes(e)

		rec := doRequest(e, "/api/v1/health")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "unhealthy", status.Status)
		assert.Contains(t, status.Checks["graph_database"].Message, "connection refused")
	})

	t.Run("graph not configured", func(t *testing.T) {
		e := echo.New()
		checker := NewChecker(nil, "1.2.3")
		checker.RegisterRoutes(e)

		rec := doRequest(e, "/api/v1/health")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestLivenessAndReadiness(t *testing.T) {
	e := echo.New()
	checker := NewChecker(&fakePinger{}, "1.2.3")
	checker.RegisterRoutes(e)

	assert.Equal(t, http.StatusOK, doRequest(e, "/api/v1/health/live").Code)
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(e, "/api/v1/health/ready").Code)

	checker.SetReady(true)
	assert.Equal(t, http.StatusOK, doRequest(e, "/api/v1/health/ready").Code)

	checker.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(e, "/api/v1/health/ready").Code)
}
