package report_test

import (
	"bytes"
	"testing"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/report"
)

func sampleReport(topCount int) domain.ReportSummary {
	txs := make([]domain.Transaction, 0, topCount)
	for i := 0; i < topCount; i++ {
		entry := tx(domain.TypeDeposit, float64(100*(i+1)), domain.StatusCompleted)
		entry.TransactionID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
		entry.Reference = "monthly settlement"
		entry.Timestamp = 1700000000000
		txs = append(txs, entry)
	}
	return report.BuildReportSummary(txs, report.DefaultTopN)
}

func TestWritePDF_ProducesDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, sampleReport(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF signature: %q", buf.Bytes()[:8])
	}
}

func TestWritePDF_EmptySet(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, sampleReport(0)); err != nil {
		t.Fatalf("an empty transaction set must still render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("expected a valid PDF for the empty set")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestWritePDF_PropagatesWriteFailure(t *testing.T) {
	if err := report.WritePDF(failingWriter{}, sampleReport(3)); err == nil {
		t.Fatal("expected an error when the writer fails")
	}
}
