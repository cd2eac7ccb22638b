package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

const usersTable = "users"

// supabaseUser maps the users table columns.
type supabaseUser struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         int    `json:"role"`
}

func (r *supabaseUser) toDomain() *domain.User {
	return &domain.User{
		UserID:       r.UserID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
	}
}

// InsertUser persists a new user account.
func (c *Client) InsertUser(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "Supabase.InsertUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.UserID))

	row := map[string]any{
		"user_id":       user.UserID,
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
	}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			_, err := c.doPost(ctx, usersTable, row)
			return err
		})
	})
	if err != nil {
		return &domain.ErrStore{Op: "insert user", Err: err}
	}
	return nil
}

// GetUserByEmail looks a user up by email. Returns (nil, nil) when no
// account exists; the auth service decides how to surface that.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByEmail")
	defer span.End()

	return c.getUser(ctx, fmt.Sprintf("%s?email=eq.%s&limit=1", usersTable, url.QueryEscape(email)))
}

// GetUserByID looks a user up by id. Returns (nil, nil) when missing.
func (c *Client) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByID")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return c.getUser(ctx, fmt.Sprintf("%s?user_id=eq.%s&limit=1", usersTable, url.QueryEscape(userID)))
}

func (c *Client) getUser(ctx context.Context, path string) (*domain.User, error) {
	var result *domain.User

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}
			if body == nil || string(body) == "[]" {
				result = nil
				return nil
			}

			var rows []supabaseUser
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode user: %w", err)
			}
			if len(rows) == 0 {
				result = nil
				return nil
			}
			result = rows[0].toDomain()
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrStore{Op: "get user", Err: err}
	}
	return result, nil
}
