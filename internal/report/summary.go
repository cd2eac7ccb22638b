// Package report computes aggregate views of transaction sets and
// renders them as CSV and PDF documents.
package report

import (
	"sort"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
)

// DefaultTopN is how many top-ranked transactions the PDF highlights.
const DefaultTopN = 3

// NoReference is the display fallback for transactions without one.
const NoReference = "No reference"

// Summarize scans a transaction set and computes the aggregate summary.
// Records with missing amount details contribute nothing to volume but
// are still counted; a single malformed row never fails the whole
// summary. Unknown type values are excluded from the breakdown (the
// engine never invents categories) but remain in the total count.
func Summarize(txs []domain.Transaction) domain.Summary {
	counts := make(map[string]int, len(domain.TransactionTypes))

	var totalVolume float64
	completed := 0
	for i := range txs {
		t := &txs[i]
		totalVolume += t.OriginAmount()
		if t.Status == domain.StatusCompleted {
			completed++
		}
		if _, known := knownTypes[t.Type]; known {
			counts[t.Type]++
		}
	}

	total := len(txs)
	avg := 0.0
	if total > 0 {
		avg = totalVolume / float64(total)
	}

	breakdown := make([]domain.TypeCount, 0, len(domain.TransactionTypes))
	for _, tt := range domain.TransactionTypes {
		breakdown = append(breakdown, domain.TypeCount{Type: tt, Count: counts[tt]})
	}

	return domain.Summary{
		TotalVolume:           totalVolume,
		TotalTransactions:     total,
		AvgTransactionSize:    avg,
		CompletedTransactions: completed,
		TypeBreakdown:         breakdown,
	}
}

var knownTypes = map[string]struct{}{
	domain.TypeDeposit:    {},
	domain.TypeWithdrawal: {},
	domain.TypeTransfer:   {},
	domain.TypePayment:    {},
}

// TopN ranks transactions descending by origin amount and returns the
// first n as display entries. Records without a valid positive amount
// are excluded from ranking; ties keep input order (stable sort).
func TopN(txs []domain.Transaction, n int) []domain.TopTransaction {
	ranked := make([]*domain.Transaction, 0, len(txs))
	for i := range txs {
		if txs[i].OriginAmount() > 0 {
			ranked = append(ranked, &txs[i])
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OriginAmount() > ranked[j].OriginAmount()
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	top := make([]domain.TopTransaction, 0, len(ranked))
	for _, t := range ranked {
		entry := domain.TopTransaction{
			TransactionID:     t.TransactionID,
			Amount:            t.OriginAmount(),
			Type:              t.Type,
			Timestamp:         t.Timestamp,
			Reference:         t.Reference,
			OriginUserID:      t.OriginUserID,
			DestinationUserID: t.DestinationUserID,
		}
		if entry.Reference == "" {
			entry.Reference = NoReference
		}
		if t.OriginAmountDetails != nil {
			entry.Currency = t.OriginAmountDetails.TransactionCurrency
			entry.OriginCountry = t.OriginAmountDetails.Country
		}
		if t.DestinationAmountDetails != nil {
			entry.DestinationCountry = t.DestinationAmountDetails.Country
		}
		top = append(top, entry)
	}
	return top
}

// BuildReportSummary combines Summarize and TopN into the PDF input.
func BuildReportSummary(txs []domain.Transaction, n int) domain.ReportSummary {
	return domain.ReportSummary{
		Summary:         Summarize(txs),
		TopTransactions: TopN(txs, n),
	}
}
