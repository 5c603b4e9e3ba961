package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	if metrics.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal is nil")
	}
	if metrics.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration is nil")
	}
	if metrics.AuthFailuresTotal == nil {
		t.Error("AuthFailuresTotal is nil")
	}
	if metrics.LoginsTotal == nil {
		t.Error("LoginsTotal is nil")
	}
	if metrics.RegistrationsTotal == nil {
		t.Error("RegistrationsTotal is nil")
	}
	if metrics.CacheHitsTotal == nil {
		t.Error("CacheHitsTotal is nil")
	}
	if metrics.CacheMissesTotal == nil {
		t.Error("CacheMissesTotal is nil")
	}
	if metrics.TodosOverdue == nil {
		t.Error("TodosOverdue is nil")
	}
}

func TestNewMetrics_NilRegistry(t *testing.T) {
	// Each call gets its own registry, so two instances must not panic
	// with duplicate registration
	NewMetrics(nil)
	NewMetrics(nil)
}

func TestMetrics_MiddlewareLabelsRouteTemplate(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.HandleFunc("/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	for _, path := range []string{"/todos/1", "/todos/2", "/todos/99"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
	}

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/todos/{id}", "200"))
	if got != 3 {
		t.Errorf("Expected 3 requests under the route template label, got %v", got)
	}
}

func TestMetrics_MiddlewareRecordsStatus(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/missing", "404"))
	if got != 1 {
		t.Errorf("Expected 1 request counted with status 404, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	metrics.TodosOverdue.Set(7)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Metrics endpoint returned %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "taskhub_todos_overdue 7") {
		t.Errorf("Metrics output missing overdue gauge:\n%s", rr.Body.String())
	}
}
