package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/handler"
	"github.com/AlexZinkM/event-registration/internal/metrics"
	"github.com/AlexZinkM/event-registration/internal/requestcontext"
)

// RequestIDHeader is echoed on every response
const RequestIDHeader = "X-Request-ID"

// Handlers are the endpoint groups served by the router. Visits is nil when
// visitor registration is disabled.
type Handlers struct {
	Registration *handler.RegistrationHandler
	Visits       *handler.VisitHandler
	Admin        *handler.AdminHandler
}

// SetupRouter sets up router with handlers
func SetupRouter(h Handlers, gatherer prometheus.Gatherer, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Registration endpoints
	mux.HandleFunc("/event", h.Registration.Event)
	mux.HandleFunc("/registration/step", h.Registration.Step)
	mux.HandleFunc("/payment/qr", h.Registration.PaymentQR)

	if h.Visits != nil {
		mux.HandleFunc("/visits", h.Visits.Register)
	}

	// Admin endpoints
	mux.HandleFunc("/admin/confirmations", h.Admin.Confirmations)
	mux.HandleFunc("/admin/confirmations/export", h.Admin.Export)
	mux.HandleFunc("/admin/visits", h.Admin.Visits)

	return withRequestContext(mux, m, logger)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestContext stamps each request with an ID and a time, then logs and
// counts it by matched route.
func withRequestContext(mux *http.ServeMux, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, start)
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r.WithContext(ctx))

		_, route := mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		logger.Info("http request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
