package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
)

// AccountRepository handles database operations for authentication accounts
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByEmail retrieves an account by email address
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.AuthAccount, error) {
	query := `
		SELECT id, email, password_hash, raw_meta, invited_at, confirmed_at, created_at
		FROM auth_accounts
		WHERE email = $1
	`

	var account models.AuthAccount
	err := r.db.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.RawMeta,
		&account.InvitedAt,
		&account.ConfirmedAt,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error getting account: %w", err)
	}

	return &account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.AuthAccount, error) {
	query := `
		SELECT id, email, password_hash, raw_meta, invited_at, confirmed_at, created_at
		FROM auth_accounts
		WHERE id = $1
	`

	var account models.AuthAccount
	err := r.db.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.RawMeta,
		&account.InvitedAt,
		&account.ConfirmedAt,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error getting account: %w", err)
	}

	return &account, nil
}

// UpdatePassword replaces the stored password hash
func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE auth_accounts SET password_hash = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// Confirm sets the password of an invited account and marks it confirmed
func (r *AccountRepository) Confirm(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE auth_accounts
		SET password_hash = $1, confirmed_at = NOW()
		WHERE id = $2 AND confirmed_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("error confirming account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidInviteToken
	}

	return nil
}
