package domain_test

import (
	"errors"
	"testing"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
)

func validCreateRequest() *domain.CreateTransactionRequest {
	return &domain.CreateTransactionRequest{
		Type:              domain.TypeDeposit,
		DestinationUserID: "user-2",
		OriginAmountDetails: &domain.AmountDetails{
			TransactionAmount:   100,
			TransactionCurrency: "USD",
			Country:             "US",
		},
		DestinationAmountDetails: &domain.AmountDetails{
			TransactionAmount:   100,
			TransactionCurrency: "USD",
			Country:             "US",
		},
		Description:      "monthly deposit",
		DestinationEmail: "dest@example.com",
	}
}

func TestNewTransaction_AssignsIDAndTimestamp(t *testing.T) {
	tx, err := domain.NewTransaction(validCreateRequest())
	if err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if tx.TransactionID == "" {
		t.Error("expected server-assigned transaction ID")
	}
	if tx.Timestamp == 0 {
		t.Error("expected server-assigned timestamp")
	}

	other, err := domain.NewTransaction(validCreateRequest())
	if err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if other.TransactionID == tx.TransactionID {
		t.Error("expected unique IDs per creation")
	}
}

func TestNewTransaction_RejectsUnknownType(t *testing.T) {
	for _, bad := range []string{"", "deposit", "Deposits", "Refund"} {
		req := validCreateRequest()
		req.Type = bad
		if _, err := domain.NewTransaction(req); !isValidationError(err) {
			t.Errorf("type %q: expected validation error, got %v", bad, err)
		}
	}
}

func TestNewTransaction_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.CreateTransactionRequest)
	}{
		{"missing destinationUserId", func(r *domain.CreateTransactionRequest) { r.DestinationUserID = "" }},
		{"missing description", func(r *domain.CreateTransactionRequest) { r.Description = "" }},
		{"missing originAmountDetails", func(r *domain.CreateTransactionRequest) { r.OriginAmountDetails = nil }},
		{"missing destinationAmountDetails", func(r *domain.CreateTransactionRequest) { r.DestinationAmountDetails = nil }},
		{"missing destinationEmail", func(r *domain.CreateTransactionRequest) { r.DestinationEmail = "" }},
		{"invalid destinationEmail", func(r *domain.CreateTransactionRequest) { r.DestinationEmail = "not-an-email" }},
		{"non-positive amount", func(r *domain.CreateTransactionRequest) { r.OriginAmountDetails.TransactionAmount = 0 }},
		{"negative amount", func(r *domain.CreateTransactionRequest) { r.OriginAmountDetails.TransactionAmount = -5 }},
		{"missing currency", func(r *domain.CreateTransactionRequest) { r.OriginAmountDetails.TransactionCurrency = "" }},
		{"missing country", func(r *domain.CreateTransactionRequest) { r.DestinationAmountDetails.Country = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)
			if _, err := domain.NewTransaction(req); !isValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNewTransaction_OptionalFieldsMayBeAbsent(t *testing.T) {
	req := validCreateRequest()
	req.OriginUserID = ""
	req.OriginEmail = ""
	req.Reference = ""
	req.Tags = nil

	tx, err := domain.NewTransaction(req)
	if err != nil {
		t.Fatalf("optional fields should not be required: %v", err)
	}
	if tx.Reference != "" {
		t.Errorf("expected empty reference carried through, got %q", tx.Reference)
	}
}

func TestNewTransaction_InvalidOriginEmailRejected(t *testing.T) {
	req := validCreateRequest()
	req.OriginEmail = "bad@@example"
	if _, err := domain.NewTransaction(req); !isValidationError(err) {
		t.Errorf("expected validation error for bad origin email, got %v", err)
	}
}

func TestOriginAmount_NilDetails(t *testing.T) {
	tx := &domain.Transaction{}
	if got := tx.OriginAmount(); got != 0 {
		t.Errorf("expected 0 for missing amount details, got %v", got)
	}
}

func isValidationError(err error) bool {
	var v *domain.ErrValidation
	return errors.As(err, &v)
}
