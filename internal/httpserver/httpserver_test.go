package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"conversational-commerce/internal/middleware"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubTracking struct{}

func (stubTracking) RecordMessage(c *gin.Context)     { c.Status(http.StatusCreated) }
func (stubTracking) RecordProductView(c *gin.Context) { c.Status(http.StatusCreated) }
func (stubTracking) RecordSearch(c *gin.Context)      { c.Status(http.StatusOK) }
func (stubTracking) RecordAction(c *gin.Context)      { c.Status(http.StatusCreated) }
func (stubTracking) CreateCart(c *gin.Context)        { c.Status(http.StatusCreated) }

func newTestServer(t *testing.T, cfg Config) *HTTPServer {
	t.Helper()
	if cfg.Mode == "" {
		cfg.Mode = gin.TestMode
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	srv, err := New(log.NewNop(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func do(srv *HTTPServer, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Config{Mode: gin.TestMode, Port: 8080}); err == nil {
		t.Error("expected error without logger")
	}
	if _, err := New(log.NewNop(), Config{Mode: gin.TestMode}); err == nil {
		t.Error("expected error without port")
	}
	if _, err := New(log.NewNop(), Config{Port: 8080}); err == nil {
		t.Error("expected error without mode")
	}
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t, Config{Metrics: metrics.New(prometheus.NewRegistry())})

	for _, path := range []string{"/health", "/live", "/ready"} {
		t.Run(path, func(t *testing.T) {
			w := do(srv, http.MethodGet, path, nil)
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if !strings.Contains(w.Body.String(), ServiceName) {
				t.Errorf("body %s missing service name", w.Body.String())
			}
		})
	}

	t.Run("/metrics", func(t *testing.T) {
		w := do(srv, http.MethodGet, "/metrics", nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestReadyCheck_EventLogDown(t *testing.T) {
	srv := newTestServer(t, Config{EventLog: stubPinger{err: errors.New("connection refused")}})

	w := do(srv, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_ready") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAPIGroup_InternalKey(t *testing.T) {
	srv := newTestServer(t, Config{InternalKey: "secret", TrackingHandler: stubTracking{}})

	t.Run("missing key", func(t *testing.T) {
		w := do(srv, http.MethodPost, "/api/v1/messages", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("valid key", func(t *testing.T) {
		w := do(srv, http.MethodPost, "/api/v1/messages", map[string]string{middleware.InternalKeyHeader: "secret"})
		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", w.Code)
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		w := do(srv, http.MethodGet, "/health", nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}
