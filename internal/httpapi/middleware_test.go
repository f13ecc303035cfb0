package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/observability"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestRequestLogger_LogsAndMeasures(t *testing.T) {
	var buf bytes.Buffer
	clock := clockwork.NewFakeClock()
	metrics, _ := observability.NewMetricsForTesting()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1.0/temp/{start}", func(w http.ResponseWriter, r *http.Request) {
		clock.Advance(42 * time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
	})
	h := requestLogger(mux, newJSONLogger(&buf), metrics, clock)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1.0/temp/01012017", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	entry := lastLogLine(t, &buf)
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1.0/temp/01012017", entry["path"])
	assert.Equal(t, "GET /api/v1.0/temp/{start}", entry["route"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, 42, entry["duration_ms"])

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "GET /api/v1.0/temp/{start}", "418")), 0)
}

func TestRequestLogger_RequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("generated when absent", func(t *testing.T) {
		var buf bytes.Buffer
		h := requestLogger(next, newJSONLogger(&buf), nil, clockwork.NewFakeClock())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(requestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err, "request id %q is not a uuid", id)
		assert.Equal(t, id, lastLogLine(t, &buf)["request_id"])
	})

	t.Run("propagated when supplied", func(t *testing.T) {
		var buf bytes.Buffer
		h := requestLogger(next, newJSONLogger(&buf), nil, clockwork.NewFakeClock())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	})

	t.Run("oversized id is replaced", func(t *testing.T) {
		var buf bytes.Buffer
		h := requestLogger(next, newJSONLogger(&buf), nil, clockwork.NewFakeClock())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
		assert.NoError(t, err)
	})
}

func TestRequestLogger_ServerErrorsLogAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h := requestLogger(next, newJSONLogger(&buf), nil, clockwork.NewFakeClock())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1.0/stations", nil))

	entry := lastLogLine(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "unmatched", entry["route"])
}
