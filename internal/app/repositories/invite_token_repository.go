package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
)

// InviteToken is one row of the 'invite_tokens' table
type InviteToken struct {
	ID        int64
	AccountID int64
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// InviteTokenRepository handles database operations for invitation tokens
type InviteTokenRepository struct {
	db *pgxpool.Pool
}

// NewInviteTokenRepository creates a new InviteTokenRepository
func NewInviteTokenRepository(db *pgxpool.Pool) *InviteTokenRepository {
	return &InviteTokenRepository{db: db}
}

// Create stores a token for an invited account
func (r *InviteTokenRepository) Create(ctx context.Context, accountID int64, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO invite_tokens (account_id, token, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, accountID, token, expiresAt); err != nil {
		return fmt.Errorf("error creating invite token: %w", err)
	}

	return nil
}

// GetValid retrieves an unused, unexpired token row
func (r *InviteTokenRepository) GetValid(ctx context.Context, token string) (*InviteToken, error) {
	query := `
		SELECT id, account_id, token, expires_at, used_at, created_at
		FROM invite_tokens
		WHERE token = $1 AND used_at IS NULL AND expires_at > NOW()
	`

	var row InviteToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&row.ID,
		&row.AccountID,
		&row.Token,
		&row.ExpiresAt,
		&row.UsedAt,
		&row.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidInviteToken
		}
		return nil, fmt.Errorf("error getting invite token: %w", err)
	}

	return &row, nil
}

// MarkUsed consumes a token. A token already consumed by a concurrent
// request reports ErrInviteTokenUsed.
func (r *InviteTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	query := `UPDATE invite_tokens SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking invite token used: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInviteTokenUsed
	}

	return nil
}
