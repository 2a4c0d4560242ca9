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

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	query := `
		SELECT id, full_name, role, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error getting profile: %w", err)
	}

	return &profile, nil
}

// GetRole retrieves the authorization role of a profile with a fresh read.
// Callers must use this per privileged call; role claims carried by the
// session token are never authoritative.
func (r *ProfileRepository) GetRole(ctx context.Context, id int64) (models.RoleType, error) {
	query := `SELECT role FROM profiles WHERE id = $1`

	var role models.RoleType
	err := r.db.QueryRow(ctx, query, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrProfileNotFound
		}
		return "", fmt.Errorf("error getting profile role: %w", err)
	}

	return role, nil
}

// UpdateFullName updates the display name of a profile
func (r *ProfileRepository) UpdateFullName(ctx context.Context, id int64, fullName string) error {
	query := `UPDATE profiles SET full_name = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Exec(ctx, query, fullName, id)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// Delete deletes a profile. Dependent student, application and attachment
// rows are removed by the store's cascading deletes.
func (r *ProfileRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM profiles WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}
