package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/query"
	"github.com/ledgerops/tx-ledger-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Transaction Handlers
// ============================================================

type createResponse struct {
	Success bool                `json:"success"`
	Data    *domain.Transaction `json:"data"`
}

func createTransactionHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/transactions")
		defer span.End()

		var req domain.CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tx, err := svc.Create(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, createResponse{Success: true, Data: tx})
	}
}

func getTransactionHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions/{transactionId}")
		defer span.End()

		transactionID := chi.URLParam(r, "transactionId")
		span.SetAttributes(attribute.String("transaction.id", transactionID))

		tx, err := svc.Get(ctx, transactionID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, createResponse{Success: true, Data: tx})
	}
}

type searchResponse struct {
	Pagination query.Pagination     `json:"pagination"`
	Data       []domain.Transaction `json:"data"`
}

// searchTransactionsHandler serves both the plain paginated listing and
// filtered search; an empty query string simply compiles to an empty
// predicate. export_all=true switches to the unwindowed {total, data}
// response.
func searchTransactionsHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions")
		defer span.End()

		spec := domain.CompileFilter(queryParams(r))

		if all, _ := strconv.ParseBool(r.URL.Query().Get("export_all")); all {
			result, err := svc.ExportAll(ctx, spec)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			writeJSON(w, http.StatusOK, result)
			return
		}

		rows, pg, err := svc.Search(ctx, spec)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, searchResponse{Pagination: pg, Data: rows})
	}
}

func exportTransactionsHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions/export")
		defer span.End()

		spec := domain.CompileFilter(queryParams(r))
		result, err := svc.ExportAll(ctx, spec)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type summaryResponse struct {
	Success bool           `json:"success"`
	Data    domain.Summary `json:"data"`
}

func summaryHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions/summary")
		defer span.End()

		spec := domain.CompileFilter(queryParams(r))
		summary, err := svc.Summary(ctx, spec)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summaryResponse{Success: true, Data: summary})
	}
}

// ============================================================
// Report Handlers
// ============================================================

func reportPDFHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions/report")
		defer span.End()

		spec := reportFilter(r)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="transaction-report.pdf"`)
		if err := svc.RenderPDF(ctx, w, spec); err != nil {
			// Headers may already be on the wire; if so the client sees
			// a truncated body rather than a fake success document.
			handleServiceError(w, err, logger)
			return
		}
	}
}

func exportCSVHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions/export.csv")
		defer span.End()

		spec := reportFilter(r)

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		if err := svc.RenderCSV(ctx, w, spec); err != nil {
			handleServiceError(w, err, logger)
			return
		}
	}
}

// reportFilter compiles the filter and then layers the report-specific
// date parameters (startDate/endDate, YYYY-MM-DD) on top. Like every
// filter input they are lenient: an unparsable date leaves that bound
// open.
func reportFilter(r *http.Request) domain.FilterSpec {
	spec := domain.CompileFilter(queryParams(r))

	q := r.URL.Query()
	if v := q.Get("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			ms := t.UnixMilli()
			spec.StartTimestamp = &ms
		}
	}
	if v := q.Get("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			// Inclusive through the end of the named day.
			ms := t.Add(24*time.Hour).UnixMilli() - 1
			spec.EndTimestamp = &ms
		}
	}
	return spec
}
