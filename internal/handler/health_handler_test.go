package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Health(ctx context.Context) error {
	return s.err
}

func TestHealthHandler(t *testing.T) {
	down := stubChecker{err: errors.New("connection refused")}
	up := stubChecker{}

	tests := []struct {
		name       string
		db         HealthChecker
		kv         HealthChecker
		queue      HealthChecker
		wantCode   int
		wantStatus string
		wantDB     string
		wantQueue  string
	}{
		{"all healthy", up, up, up, http.StatusOK, "healthy", "healthy", "healthy"},
		{"optional parts off", nil, up, nil, http.StatusOK, "healthy", "not_configured", "not_configured"},
		{"store down degrades", up, down, nil, http.StatusOK, "degraded", "healthy", "not_configured"},
		{"queue down degrades", up, up, down, http.StatusOK, "degraded", "healthy", "unhealthy"},
		{"database down", down, up, up, http.StatusServiceUnavailable, "unhealthy", "unhealthy", "healthy"},
		{"database down wins over store", down, down, nil, http.StatusServiceUnavailable, "unhealthy", "unhealthy", "not_configured"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.kv, tt.queue, logger)

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)

			var body HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantDB, body.Services["database"])
			assert.Equal(t, tt.wantQueue, body.Services["queue"])
		})
	}
}
