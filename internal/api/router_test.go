package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/flow"
	"github.com/AlexZinkM/event-registration/internal/handler"
	"github.com/AlexZinkM/event-registration/internal/metrics"
	"github.com/AlexZinkM/event-registration/internal/registration"
	"github.com/AlexZinkM/event-registration/internal/roster"
	"github.com/AlexZinkM/event-registration/internal/store"
	"github.com/AlexZinkM/event-registration/pix"
)

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := zap.NewNop()

	r := roster.New([]roster.Participant{{ID: "42", FullName: "Antônio Magno Lima Espeschit"}})
	confirmations := store.NewConfirmationStore(filepath.Join(t.TempDir(), "confirmations.csv"))
	svc := registration.NewService(
		flow.NewWizard(r, flow.Pricing{Above12: decimal.NewFromInt(75), MaxPerCategory: 10}),
		confirmations,
		pix.NewEncoder(),
		registration.Merchant{Key: "toni@ita90.com.br", Name: "Antonio", City: "Sao Jose"},
		m, logger)

	h := Handlers{
		Registration: handler.NewRegistrationHandler(svc, handler.Event{Name: "Festa"}, logger),
		Admin:        handler.NewAdminHandler(handler.AdminConfig{}, confirmations, nil, nil, logger),
	}
	return SetupRouter(h, reg, m, logger), m
}

func TestRouterRequestID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/event", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/event", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRouterCountsRequestsByRoute(t *testing.T) {
	router, m := newTestRouter(t)

	for _, path := range []string{"/event", "/event", "/payment/qr?amount=x", "/nope"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/event", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/payment/qr", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("unmatched", "404")))
}

func TestRouterVisitsOnlyWhenEnabled(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/visits", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterServesMetrics(t *testing.T) {
	router, _ := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/event", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "registration_http_requests_total")
}
