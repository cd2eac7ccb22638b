package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/infra/observability"
	"github.com/ledgerops/tx-ledger-go/internal/infra/resilience"
	"github.com/ledgerops/tx-ledger-go/internal/service"

	"go.uber.org/zap"
)

func newReportService(store *fakeStore) *service.ReportService {
	return service.NewReportService(store, resilience.NewBulkhead(2), observability.NewMetrics(), zap.NewNop())
}

func TestBuildSummary_FiltersAndRanks(t *testing.T) {
	store := seededStore(10) // amounts 10..19
	svc := newReportService(store)

	minAmount := 15.0
	rs, err := svc.BuildSummary(context.Background(), domain.FilterSpec{MinAmount: &minAmount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rs.TotalTransactions != 5 {
		t.Errorf("expected 5 matching transactions, got %d", rs.TotalTransactions)
	}
	if len(rs.TopTransactions) != 3 {
		t.Fatalf("expected top 3, got %d", len(rs.TopTransactions))
	}
	if rs.TopTransactions[0].Amount != 19 {
		t.Errorf("expected largest amount first, got %v", rs.TopTransactions[0].Amount)
	}
}

func TestRenderCSV_WindowNotApplied(t *testing.T) {
	store := seededStore(60)
	svc := newReportService(store)

	var buf bytes.Buffer
	err := svc.RenderCSV(context.Background(), &buf, domain.FilterSpec{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 61 { // header + all rows, not one page
		t.Errorf("expected 61 records, got %d", len(records))
	}
}

func TestRenderPDF_WritesDocument(t *testing.T) {
	store := seededStore(6)
	svc := newReportService(store)

	var buf bytes.Buffer
	if err := svc.RenderPDF(context.Background(), &buf, domain.FilterSpec{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}

func TestRenderPDF_BulkheadRespectsContext(t *testing.T) {
	store := seededStore(1)
	bh := resilience.NewBulkhead(1)
	svc := service.NewReportService(store, bh, observability.NewMetrics(), zap.NewNop())

	// Occupy the only slot, then cancel the waiting render.
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("setup acquire failed: %v", err)
	}
	defer bh.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := svc.RenderPDF(ctx, &buf, domain.FilterSpec{}); err == nil {
		t.Fatal("expected context error while waiting for a render slot")
	}
	if buf.Len() != 0 {
		t.Error("no bytes may be written before a slot is held")
	}
}
