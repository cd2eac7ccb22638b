package handler

import (
	"net/http"

	"github.com/ledgerops/tx-ledger-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Generator Handlers (admin only)
// ============================================================

type generatorStatusResponse struct {
	Status string `json:"status"`
}

func generatorStartHandler(gen *service.Generator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/generator/start")
		defer span.End()

		status, err := gen.Start()
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, generatorStatusResponse{Status: status})
	}
}

func generatorStopHandler(gen *service.Generator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/generator/stop")
		defer span.End()

		writeJSON(w, http.StatusOK, generatorStatusResponse{Status: gen.Stop()})
	}
}

func generatorStatusHandler(gen *service.Generator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/generator/status")
		defer span.End()

		writeJSON(w, http.StatusOK, generatorStatusResponse{Status: gen.Status()})
	}
}
