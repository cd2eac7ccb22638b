package query_test

import (
	"testing"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/query"
)

func ptrI64(v int64) *int64     { return &v }
func ptrF64(v float64) *float64 { return &v }

func TestBuildPredicate_EmptySpec(t *testing.T) {
	pred := query.BuildPredicate(domain.FilterSpec{Page: 1, PerPage: 10})
	if !pred.Empty() {
		t.Errorf("expected empty predicate, got %d conds", len(pred.Conds()))
	}
}

func TestBuildPredicate_Encoding(t *testing.T) {
	spec := domain.FilterSpec{
		Description:    "rent",
		Type:           domain.TypeTransfer,
		Status:         domain.StatusCompleted,
		StartTimestamp: ptrI64(1000),
		EndTimestamp:   ptrI64(2000),
		MinAmount:      ptrF64(10.5),
		MaxAmount:      ptrF64(99),
	}
	v := query.BuildPredicate(spec).Encode()

	if got := v.Get("description"); got != "ilike.*rent*" {
		t.Errorf("description: got %q", got)
	}
	if got := v.Get("type"); got != "eq.Transfer" {
		t.Errorf("type: got %q", got)
	}
	if got := v.Get("status"); got != "eq.Completed" {
		t.Errorf("status: got %q", got)
	}
	if got := v["transaction_timestamp"]; len(got) != 2 || got[0] != "gte.1000" || got[1] != "lte.2000" {
		t.Errorf("timestamp bounds: got %v", got)
	}
	if got := v["originamountdetails->transactionAmount"]; len(got) != 2 || got[0] != "gte.10.5" || got[1] != "lte.99" {
		t.Errorf("amount bounds: got %v", got)
	}
}

func TestPlan_CountAndDataShareOnePredicate(t *testing.T) {
	spec := domain.FilterSpec{
		Description: "invoice",
		Type:        domain.TypeDeposit,
		MinAmount:   ptrF64(50),
		Page:        2,
		PerPage:     10,
	}
	plan := query.NewPlan(spec, false)

	if !plan.Count.Predicate.Equal(plan.Data.Predicate) {
		t.Fatal("count and data operations must carry an identical predicate")
	}
	if plan.Count.Predicate.Empty() {
		t.Fatal("predicate should reflect the filter")
	}
}

func TestPlan_WindowAppliedAfterClamp(t *testing.T) {
	spec := domain.FilterSpec{Page: 3, PerPage: 10}
	plan := query.NewPlan(spec, false)

	if plan.Data.Limit != query.Unbounded {
		t.Fatalf("window must stay open until the count is known, got limit %d", plan.Data.Limit)
	}

	pg := query.Paginate(25, spec.Page, spec.PerPage)
	plan.ApplyWindow(pg)

	if plan.Data.Limit != 10 {
		t.Errorf("expected limit 10, got %d", plan.Data.Limit)
	}
	if plan.Data.Offset != 20 {
		t.Errorf("expected offset 20, got %d", plan.Data.Offset)
	}
	if plan.Data.OrderBy != query.OrderTimestampDesc {
		t.Errorf("expected timestamp-desc ordering, got %q", plan.Data.OrderBy)
	}
}

func TestPlan_ExportAllSkipsWindow(t *testing.T) {
	plan := query.NewPlan(domain.FilterSpec{Page: 5, PerPage: 10}, true)
	plan.ApplyWindow(query.Paginate(100, 5, 10))

	if plan.Data.Limit != query.Unbounded || plan.Data.Offset != 0 {
		t.Errorf("export-all plan must not be windowed: limit=%d offset=%d",
			plan.Data.Limit, plan.Data.Offset)
	}
}

func TestPredicate_Matches(t *testing.T) {
	spec := domain.FilterSpec{
		Description: "Rent",
		Type:        domain.TypeTransfer,
		MinAmount:   ptrF64(100),
		MaxAmount:   ptrF64(500),
	}
	pred := query.BuildPredicate(spec)

	match := &domain.Transaction{
		Type:        domain.TypeTransfer,
		Description: "march rent payment",
		OriginAmountDetails: &domain.AmountDetails{
			TransactionAmount: 250, TransactionCurrency: "USD", Country: "US",
		},
	}
	if !pred.Matches(match) {
		t.Error("expected case-insensitive substring match on description")
	}

	tooSmall := &domain.Transaction{
		Type:        domain.TypeTransfer,
		Description: "rent",
		OriginAmountDetails: &domain.AmountDetails{
			TransactionAmount: 50, TransactionCurrency: "USD", Country: "US",
		},
	}
	if pred.Matches(tooSmall) {
		t.Error("amount below minAmount must not match")
	}

	wrongType := &domain.Transaction{
		Type:        domain.TypeDeposit,
		Description: "rent",
		OriginAmountDetails: &domain.AmountDetails{
			TransactionAmount: 250, TransactionCurrency: "USD", Country: "US",
		},
	}
	if pred.Matches(wrongType) {
		t.Error("type filter is exact equality")
	}
}
