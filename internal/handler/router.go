package handler

import (
	"net/http"
	"time"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/infra/observability"
	"github.com/ledgerops/tx-ledger-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(
	txSvc *service.TransactionService,
	reportSvc *service.ReportService,
	authSvc *service.AuthService,
	gen *service.Generator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(MetricsMiddleware(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(txSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Transactions
		// =============================================
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", searchTransactionsHandler(txSvc, logger))
			r.Post("/", createTransactionHandler(txSvc, logger))
			// Fixed segments before the {transactionId} wildcard.
			r.Get("/search", searchTransactionsHandler(txSvc, logger))
			r.Get("/export", exportTransactionsHandler(txSvc, logger))
			r.Get("/export.csv", exportCSVHandler(reportSvc, logger))
			r.Get("/summary", summaryHandler(txSvc, logger))
			r.Get("/report", reportPDFHandler(reportSvc, logger))
			r.Get("/{transactionId}", getTransactionHandler(txSvc, logger))
		})

		// =============================================
		// Metrics snapshot
		// =============================================
		r.Get("/metrics/ops", opsMetricsHandler(metrics))

		// =============================================
		// Auth
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Get("/me", authMeHandler(authSvc, logger))
			})
		})

		// =============================================
		// Generator (admin only)
		// =============================================
		r.Route("/generator", func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))
			r.Use(RequireAdmin(logger))
			r.Post("/start", generatorStartHandler(gen, logger))
			r.Post("/stop", generatorStopHandler(gen, logger))
			r.Get("/status", generatorStatusHandler(gen, logger))
		})
	})

	return r
}

func opsMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}

// healthzHandler reports liveness plus a cheap round trip to the store.
func healthzHandler(txSvc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		start := time.Now()
		_, _, err := txSvc.Search(r.Context(), domain.FilterSpec{Page: 1, PerPage: 1})
		latency := time.Since(start).Milliseconds()
		if err != nil {
			status = "degraded"
			logger.Warn("healthz: store check failed", zap.Error(err))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":     status,
			"latency_ms": latency,
			"checked_at": time.Now().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
