// Package service provides the business logic layer (use cases).
// TransactionService owns the search pipeline: filter compilation
// output goes through the query planner, the count-then-clamp
// pagination flow, and the windowed data fetch.
package service

import (
	"context"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/infra/observability"
	"github.com/ledgerops/tx-ledger-go/internal/port"
	"github.com/ledgerops/tx-ledger-go/internal/query"
	"github.com/ledgerops/tx-ledger-go/internal/report"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var txTracer = otel.Tracer("service/transaction")

// summaryCacheKey caches only the unfiltered summary (the dashboard
// default). Filtered summaries are always computed fresh.
const summaryCacheKey = "summary:all"

// ExportResult is the payload of an export-all fetch: the full filtered
// set plus the total the count operation reported for it.
type ExportResult struct {
	Total int                  `json:"total"`
	Data  []domain.Transaction `json:"data"`
}

// TransactionService orchestrates transaction reads and writes via the
// Supabase store.
type TransactionService struct {
	store        port.TransactionStore
	summaryCache port.Cache[domain.Summary]
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(store port.TransactionStore, summaryCache port.Cache[domain.Summary], metrics *observability.Metrics, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:        store,
		summaryCache: summaryCache,
		metrics:      metrics,
		logger:       logger,
	}
}

// Create validates and persists a new transaction. The summary cache is
// invalidated so the dashboard reflects the new record on next read.
func (s *TransactionService) Create(ctx context.Context, req *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Create")
	defer span.End()

	tx, err := domain.NewTransaction(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("transaction.id", tx.TransactionID))

	if err := s.store.Insert(ctx, tx); err != nil {
		s.metrics.IncrStoreError("insert")
		return nil, err
	}

	s.summaryCache.Delete(summaryCacheKey)
	s.logger.Info("transaction created",
		zap.String("transaction_id", tx.TransactionID),
		zap.String("type", tx.Type),
	)
	return tx, nil
}

// Get returns a single transaction by ID.
func (s *TransactionService) Get(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", transactionID))

	return s.store.GetByID(ctx, transactionID)
}

// Search runs the full windowed pipeline: one predicate drives both the
// count and the data fetch, the requested page is clamped against the
// fresh total, and only then is the row window applied. An empty page is
// returned with valid pagination metadata, never as an error.
func (s *TransactionService) Search(ctx context.Context, spec domain.FilterSpec) ([]domain.Transaction, query.Pagination, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Search")
	defer span.End()

	plan := query.NewPlan(spec, false)

	total, err := s.store.CountWhere(ctx, plan.Count)
	if err != nil {
		s.metrics.IncrStoreError("count")
		return nil, query.Pagination{}, err
	}

	pg := query.Paginate(total, spec.Page, spec.PerPage)
	plan.ApplyWindow(pg)
	span.SetAttributes(
		attribute.Int("search.total", total),
		attribute.Int("search.page", pg.Page),
	)

	rows, err := s.store.SelectWhere(ctx, plan.Data)
	if err != nil {
		s.metrics.IncrStoreError("select")
		return nil, query.Pagination{}, err
	}
	if rows == nil {
		rows = []domain.Transaction{}
	}
	return rows, pg, nil
}

// ExportAll bypasses the pagination window and returns every matching
// row. The count still runs, concurrently with the data fetch, so the
// response can carry the total.
func (s *TransactionService) ExportAll(ctx context.Context, spec domain.FilterSpec) (*ExportResult, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.ExportAll")
	defer span.End()

	plan := query.NewPlan(spec, true)

	var (
		total int
		rows  []domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.CountWhere(gctx, plan.Count)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.store.SelectWhere(gctx, plan.Data)
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrStoreError("select")
		return nil, err
	}

	if rows == nil {
		rows = []domain.Transaction{}
	}
	span.SetAttributes(attribute.Int("export.total", total))
	return &ExportResult{Total: total, Data: rows}, nil
}

// Summary aggregates the transactions matching the filter. The
// unfiltered summary is served from cache when fresh.
func (s *TransactionService) Summary(ctx context.Context, spec domain.FilterSpec) (domain.Summary, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Summary")
	defer span.End()

	unfiltered := query.BuildPredicate(spec).Empty()
	if unfiltered {
		if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
			s.metrics.IncrCacheHit("summary")
			return cached, nil
		}
		s.metrics.IncrCacheMiss("summary")
	}

	plan := query.NewPlan(spec, true)
	rows, err := s.store.SelectWhere(ctx, plan.Data)
	if err != nil {
		s.metrics.IncrStoreError("select")
		return domain.Summary{}, err
	}

	summary := report.Summarize(rows)
	if unfiltered {
		s.summaryCache.Set(summaryCacheKey, summary)
	}
	return summary, nil
}
