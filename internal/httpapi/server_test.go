package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/config"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/observability"
)

func TestNewServer(t *testing.T) {
	h := http.NotFoundHandler()
	srv := NewServer(config.Config{HTTPAddr: ":9999"}, h)

	assert.Equal(t, ":9999", srv.Addr)
	assert.NotNil(t, srv.Handler)
	assert.NotZero(t, srv.ReadHeaderTimeout)
	assert.NotZero(t, srv.WriteTimeout)
}

func TestNewHandler_CORS(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1.0/stations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"stations_list":[]}`)
	})
	var buf bytes.Buffer
	cfg := config.Config{CORSAllowedOrigins: []string{"https://dashboard.example"}}
	h := NewHandler(cfg, mux, newJSONLogger(&buf), nil, clockwork.NewFakeClock())

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1.0/stations", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://dashboard.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	})

	t.Run("other origin gets no cors headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1.0/stations", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1.0/stations", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Less(t, rec.Code, 300)
		assert.Equal(t, "https://dashboard.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestOperationalRoutes_Metrics(t *testing.T) {
	metrics, reg := observability.NewMetricsForTesting()
	mux := newOperationalMux(openMemoryDB(t), fakeReadiness{}, reg, nil)
	var buf bytes.Buffer
	h := NewHandler(config.Config{CORSAllowedOrigins: []string{"*"}}, mux, newJSONLogger(&buf), metrics, nil)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `climate_api_http_requests_total{method="GET",route="GET /healthz",status="200"} 1`), body)
}
