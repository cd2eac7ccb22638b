package service

import (
	"context"
	"io"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/infra/observability"
	"github.com/ledgerops/tx-ledger-go/internal/infra/resilience"
	"github.com/ledgerops/tx-ledger-go/internal/port"
	"github.com/ledgerops/tx-ledger-go/internal/query"
	"github.com/ledgerops/tx-ledger-go/internal/report"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var reportTracer = otel.Tracer("service/report")

// ReportService renders CSV and PDF reports over filtered transaction
// sets. Renders are bulkheaded: PDF layout is the most expensive
// operation in the process, so concurrency is capped rather than letting
// a burst of report requests starve the API.
type ReportService struct {
	store    port.TransactionStore
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(store port.TransactionStore, bulkhead *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:    store,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
	}
}

// BuildSummary fetches every transaction matching the filter and
// computes the report aggregate (summary plus top-ranked transactions).
func (s *ReportService) BuildSummary(ctx context.Context, spec domain.FilterSpec) (domain.ReportSummary, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.BuildSummary")
	defer span.End()

	rows, err := s.fetchMatching(ctx, spec)
	if err != nil {
		return domain.ReportSummary{}, err
	}
	span.SetAttributes(attribute.Int("report.rows", len(rows)))

	return report.BuildReportSummary(rows, report.DefaultTopN), nil
}

// RenderPDF streams the PDF report for the filtered set to w. The fetch
// and aggregation happen before the first byte is written, so a store
// failure still yields a clean error response; a failure mid-render
// aborts the stream.
func (s *ReportService) RenderPDF(ctx context.Context, w io.Writer, spec domain.FilterSpec) error {
	ctx, span := reportTracer.Start(ctx, "ReportService.RenderPDF")
	defer span.End()

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer s.bulkhead.Release()

	rs, err := s.BuildSummary(ctx, spec)
	if err != nil {
		return err
	}

	if err := report.WritePDF(w, rs); err != nil {
		return &domain.ErrRender{Format: "pdf", Err: err}
	}

	s.metrics.IncrReportRendered("pdf")
	s.logger.Info("pdf report rendered",
		zap.Int("transactions", rs.TotalTransactions),
	)
	return nil
}

// RenderCSV streams every transaction matching the filter as a CSV
// document. The header row is always written, even for an empty set.
func (s *ReportService) RenderCSV(ctx context.Context, w io.Writer, spec domain.FilterSpec) error {
	ctx, span := reportTracer.Start(ctx, "ReportService.RenderCSV")
	defer span.End()

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer s.bulkhead.Release()

	rows, err := s.fetchMatching(ctx, spec)
	if err != nil {
		return err
	}

	if err := report.WriteCSV(w, rows); err != nil {
		return &domain.ErrRender{Format: "csv", Err: err}
	}

	s.metrics.IncrReportRendered("csv")
	s.logger.Info("csv export rendered", zap.Int("rows", len(rows)))
	return nil
}

// fetchMatching pulls the full (unwindowed) set for the filter.
func (s *ReportService) fetchMatching(ctx context.Context, spec domain.FilterSpec) ([]domain.Transaction, error) {
	plan := query.NewPlan(spec, true)
	rows, err := s.store.SelectWhere(ctx, plan.Data)
	if err != nil {
		s.metrics.IncrStoreError("select")
		return nil, err
	}
	return rows, nil
}
