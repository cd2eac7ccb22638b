package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/handler"
	"github.com/ledgerops/tx-ledger-go/internal/infra/cache"
	"github.com/ledgerops/tx-ledger-go/internal/infra/observability"
	"github.com/ledgerops/tx-ledger-go/internal/infra/resilience"
	"github.com/ledgerops/tx-ledger-go/internal/infra/supabase"
	"github.com/ledgerops/tx-ledger-go/internal/query"
	"github.com/ledgerops/tx-ledger-go/internal/service"

	"go.uber.org/zap"
)

// pgRow mirrors the transactions table column names PostgREST serves.
type pgRow struct {
	TransactionID       string                `json:"transactionid"`
	Type                string                `json:"type"`
	Timestamp           int64                 `json:"transaction_timestamp"`
	DestinationUserID   string                `json:"destinationuserid"`
	OriginAmountDetails *domain.AmountDetails `json:"originamountdetails"`
	Description         string                `json:"description"`
	Status              string                `json:"status"`
}

// mockPostgREST emulates the slice of the PostgREST API the store uses:
// filtered GET, HEAD with exact count, and POST inserts.
type mockPostgREST struct {
	rows []pgRow
}

func (m *mockPostgREST) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/rest/v1/transactions") {
			http.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodHead:
			matched := m.filter(r)
			w.Header().Set("Content-Range", fmt.Sprintf("*/%d", len(matched)))
			w.WriteHeader(http.StatusOK)

		case http.MethodGet:
			matched := m.filter(r)
			sort.SliceStable(matched, func(i, j int) bool {
				return matched[i].Timestamp > matched[j].Timestamp
			})
			if v := r.URL.Query().Get("offset"); v != "" {
				off, _ := strconv.Atoi(v)
				if off >= len(matched) {
					matched = nil
				} else {
					matched = matched[off:]
				}
			}
			if v := r.URL.Query().Get("limit"); v != "" {
				lim, _ := strconv.Atoi(v)
				if lim < len(matched) {
					matched = matched[:lim]
				}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(matched)

		case http.MethodPost:
			var row pgRow
			if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			m.rows = append(m.rows, row)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode([]pgRow{row})

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// filter applies the PostgREST query operators the predicate emits.
func (m *mockPostgREST) filter(r *http.Request) []pgRow {
	matched := make([]pgRow, 0, len(m.rows))
rows:
	for _, row := range m.rows {
		for key, values := range r.URL.Query() {
			switch key {
			case "order", "limit", "offset", "select":
				continue
			}
			for _, v := range values {
				op, arg, ok := strings.Cut(v, ".")
				if !ok {
					continue
				}
				if !rowMatches(row, key, op, arg) {
					continue rows
				}
			}
		}
		matched = append(matched, row)
	}
	return matched
}

func rowMatches(row pgRow, column, op, arg string) bool {
	switch column {
	case "transactionid":
		return row.TransactionID == arg
	case "type":
		return row.Type == arg
	case "status":
		return row.Status == arg
	case "description":
		needle := strings.ToLower(strings.Trim(arg, "*"))
		return strings.Contains(strings.ToLower(row.Description), needle)
	case "transaction_timestamp":
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return false
		}
		if op == "gte" {
			return row.Timestamp >= n
		}
		return row.Timestamp <= n
	case "originamountdetails->transactionAmount":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return false
		}
		amount := 0.0
		if row.OriginAmountDetails != nil {
			amount = row.OriginAmountDetails.TransactionAmount
		}
		if op == "gte" {
			return amount >= f
		}
		return amount <= f
	}
	return true
}

func seedRows(n int) []pgRow {
	rows := make([]pgRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, pgRow{
			TransactionID:     fmt.Sprintf("tx-%03d", i),
			Type:              domain.TypeDeposit,
			Timestamp:         int64(1700000000000 + i*1000),
			DestinationUserID: "user-1",
			OriginAmountDetails: &domain.AmountDetails{
				TransactionAmount:   float64(10 + i),
				TransactionCurrency: "USD",
				Country:             "US",
			},
			Description: "seeded row",
			Status:      domain.StatusCompleted,
		})
	}
	return rows
}

func newStack(t *testing.T, mock *mockPostgREST) http.Handler {
	t.Helper()

	backend := httptest.NewServer(mock.handler())
	t.Cleanup(backend.Close)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 5 * time.Millisecond}
	cb := resilience.NewCircuitBreaker("integration")

	store := supabase.NewClient(
		&http.Client{Timeout: 5 * time.Second},
		backend.URL,
		"anon-key",
		"service-key",
		cb,
		cfg,
		logger,
	)

	txSvc := service.NewTransactionService(store, cache.New[domain.Summary](time.Minute), metrics, logger)
	reportSvc := service.NewReportService(store, resilience.NewBulkhead(2), metrics, logger)
	authSvc := service.NewAuthService(&noopAuthStore{}, "integration-secret", 15*time.Minute, logger)
	gen := service.NewGenerator(store, "0 0 * * * *", metrics, logger)

	return handler.NewRouter(txSvc, reportSvc, authSvc, gen, metrics, logger)
}

type noopAuthStore struct{}

func (noopAuthStore) InsertUser(ctx context.Context, user *domain.User) error { return nil }
func (noopAuthStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}
func (noopAuthStore) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return nil, nil
}

// TestIntegration_SearchFlow runs the filter-compile, count, clamp and
// windowed-select pipeline against a mock PostgREST backend.
func TestIntegration_SearchFlow(t *testing.T) {
	mock := &mockPostgREST{rows: seedRows(25)}
	router := newStack(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions?page=9&per_page=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Pagination query.Pagination     `json:"pagination"`
		Data       []domain.Transaction `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	if resp.Pagination.Total != 25 || resp.Pagination.Page != 3 {
		t.Errorf("expected total 25 page 3, got %+v", resp.Pagination)
	}
	if len(resp.Data) != 5 {
		t.Fatalf("expected 5 rows on the clamped last page, got %d", len(resp.Data))
	}
	// Oldest rows land on the last page under newest-first ordering.
	if resp.Data[len(resp.Data)-1].TransactionID != "tx-000" {
		t.Errorf("expected tx-000 last, got %s", resp.Data[len(resp.Data)-1].TransactionID)
	}
}

func TestIntegration_FilteredSearch(t *testing.T) {
	mock := &mockPostgREST{rows: seedRows(20)}
	router := newStack(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions?minAmount=25&per_page=50", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Pagination query.Pagination     `json:"pagination"`
		Data       []domain.Transaction `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	// Amounts run 10..29, so 25..29 match.
	if resp.Pagination.Total != 5 {
		t.Errorf("expected 5 matches, got %d", resp.Pagination.Total)
	}
	for _, tx := range resp.Data {
		if tx.OriginAmount() < 25 {
			t.Errorf("row %s below the floor: %v", tx.TransactionID, tx.OriginAmount())
		}
	}
}

func TestIntegration_CreateThenFetch(t *testing.T) {
	mock := &mockPostgREST{}
	router := newStack(t, mock)

	payload := map[string]any{
		"type":              "Transfer",
		"destinationUserId": "user-2",
		"originAmountDetails": map[string]any{
			"transactionAmount": 300, "transactionCurrency": "EUR", "country": "DE",
		},
		"destinationAmountDetails": map[string]any{
			"transactionAmount": 300, "transactionCurrency": "EUR", "country": "DE",
		},
		"description":      "cross-border transfer",
		"destinationEmail": "payee@example.com",
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(mock.rows) != 1 {
		t.Fatalf("expected 1 row stored, got %d", len(mock.rows))
	}

	var created struct {
		Data *domain.Transaction `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("invalid create response: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/transactions/"+created.Data.TransactionID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching the created transaction, got %d", rec.Code)
	}
}

func TestIntegration_SummaryEndpoint(t *testing.T) {
	mock := &mockPostgREST{rows: seedRows(4)} // amounts 10,11,12,13
	router := newStack(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data domain.Summary `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Data.TotalVolume != 46 {
		t.Errorf("expected volume 46, got %v", resp.Data.TotalVolume)
	}
	if resp.Data.CompletedTransactions != 4 {
		t.Errorf("expected 4 completed, got %d", resp.Data.CompletedTransactions)
	}
}
