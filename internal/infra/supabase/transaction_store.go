package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/infra/resilience"
	"github.com/ledgerops/tx-ledger-go/internal/query"

	"go.opentelemetry.io/otel/attribute"
)

const transactionsTable = "transactions"

// supabaseTransaction maps the transactions table columns. Postgres
// lowercases unquoted identifiers, so the column names differ from the
// JSON wire shape; the nested jsonb payloads keep their camelCase keys.
type supabaseTransaction struct {
	TransactionID            string                `json:"transactionid"`
	Type                     string                `json:"type"`
	Timestamp                int64                 `json:"transaction_timestamp"`
	OriginUserID             string                `json:"originuserid"`
	DestinationUserID        string                `json:"destinationuserid"`
	OriginAmountDetails      *domain.AmountDetails `json:"originamountdetails"`
	DestinationAmountDetails *domain.AmountDetails `json:"destinationamountdetails"`
	OriginDeviceData         *domain.DeviceData    `json:"origindevicedata"`
	DestinationDeviceData    *domain.DeviceData    `json:"destinationdevicedata"`
	PromotionCodeUsed        *bool                 `json:"promotioncodeused"`
	Reference                string                `json:"reference"`
	Description              string                `json:"description"`
	Tags                     []domain.Tag          `json:"tags"`
	OriginEmail              string                `json:"originemail"`
	DestinationEmail         string                `json:"destinationemail"`
	Status                   string                `json:"status"`
}

func (r *supabaseTransaction) toDomain() domain.Transaction {
	return domain.Transaction{
		TransactionID:            r.TransactionID,
		Type:                     r.Type,
		Timestamp:                r.Timestamp,
		OriginUserID:             r.OriginUserID,
		DestinationUserID:        r.DestinationUserID,
		OriginAmountDetails:      r.OriginAmountDetails,
		DestinationAmountDetails: r.DestinationAmountDetails,
		OriginDeviceData:         r.OriginDeviceData,
		DestinationDeviceData:    r.DestinationDeviceData,
		PromotionCodeUsed:        r.PromotionCodeUsed,
		Reference:                r.Reference,
		Description:              r.Description,
		Tags:                     r.Tags,
		OriginEmail:              r.OriginEmail,
		DestinationEmail:         r.DestinationEmail,
		Status:                   r.Status,
	}
}

func rowFromDomain(t *domain.Transaction) map[string]any {
	row := map[string]any{
		"transactionid":            t.TransactionID,
		"type":                     t.Type,
		"transaction_timestamp":    t.Timestamp,
		"originuserid":             t.OriginUserID,
		"destinationuserid":        t.DestinationUserID,
		"originamountdetails":      t.OriginAmountDetails,
		"destinationamountdetails": t.DestinationAmountDetails,
		"reference":                t.Reference,
		"description":              t.Description,
		"originemail":              t.OriginEmail,
		"destinationemail":         t.DestinationEmail,
	}
	if t.OriginDeviceData != nil {
		row["origindevicedata"] = t.OriginDeviceData
	}
	if t.DestinationDeviceData != nil {
		row["destinationdevicedata"] = t.DestinationDeviceData
	}
	if t.PromotionCodeUsed != nil {
		row["promotioncodeused"] = *t.PromotionCodeUsed
	}
	if len(t.Tags) > 0 {
		row["tags"] = t.Tags
	}
	if t.Status != "" {
		row["status"] = t.Status
	}
	return row
}

// Insert persists a new transaction row.
func (c *Client) Insert(ctx context.Context, t *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.Insert")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", t.TransactionID))

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			_, err := c.doPost(ctx, transactionsTable, rowFromDomain(t))
			return err
		})
	})
	if err != nil {
		return &domain.ErrStore{Op: "insert transaction", Err: err}
	}
	return nil
}

// GetByID fetches a single transaction by its id.
func (c *Client) GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", transactionID))

	var result *domain.Transaction

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("%s?transactionid=eq.%s&limit=1", transactionsTable, url.QueryEscape(transactionID))
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}
			if body == nil || string(body) == "[]" {
				return &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
			}

			var rows []supabaseTransaction
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode transaction: %w", err)
			}
			if len(rows) == 0 {
				return &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
			}
			t := rows[0].toDomain()
			result = &t
			return nil
		})
	})

	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, &domain.ErrStore{Op: "get transaction", Err: err}
	}
	return result, nil
}

// CountWhere executes the count operation of a query plan.
func (c *Client) CountWhere(ctx context.Context, op query.Operation) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountWhere")
	defer span.End()

	var total int
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := transactionsTable
			if params := op.Predicate.Encode(); len(params) > 0 {
				path += "?" + params.Encode()
			}
			n, err := c.doCount(ctx, path)
			if err != nil {
				return err
			}
			total = n
			return nil
		})
	})
	if err != nil {
		return 0, &domain.ErrStore{Op: "count transactions", Err: err}
	}
	return total, nil
}

// SelectWhere executes the data operation of a query plan.
func (c *Client) SelectWhere(ctx context.Context, op query.Operation) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SelectWhere")
	defer span.End()
	span.SetAttributes(attribute.Int("op.limit", op.Limit), attribute.Int("op.offset", op.Offset))

	var result []domain.Transaction

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			params := op.Predicate.Encode()
			if op.OrderBy != "" {
				params.Set("order", op.OrderBy)
			}
			if op.Limit >= 0 {
				params.Set("limit", strconv.Itoa(op.Limit))
			}
			if op.Offset > 0 {
				params.Set("offset", strconv.Itoa(op.Offset))
			}
			path := transactionsTable
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}
			if body == nil || string(body) == "[]" {
				result = []domain.Transaction{}
				return nil
			}

			var rows []supabaseTransaction
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode transactions: %w", err)
			}
			result = make([]domain.Transaction, 0, len(rows))
			for i := range rows {
				result = append(result, rows[i].toDomain())
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrStore{Op: "select transactions", Err: err}
	}
	return result, nil
}
