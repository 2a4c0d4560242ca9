package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/auth"
	"github.com/ymori/careertrack/internal/pkg/dberrors"
)

// defaultCourses is the initial course reference data
var defaultCourses = []string{
	"Web開発コース",
	"データサイエンスコース",
	"UI/UXデザインコース",
}

// CreateDefaultData seeds course reference data and a first admin account so
// a fresh install is usable. Existing rows are left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	courseRepo := repositories.NewCourseRepository(dbPool)

	var finalErr error

	for _, name := range defaultCourses {
		if _, err := courseRepo.GetByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrCourseNotFound) {
			finalErr = errors.Join(finalErr, err)
			continue
		}

		if _, err := courseRepo.Create(ctx, name); err != nil {
			if !dberrors.IsUniqueViolation(err) {
				lgr.Error().Err(err).Str("course", name).Msg("Error seeding course")
				finalErr = errors.Join(finalErr, err)
			}
			continue
		}
		lgr.Info().Str("course", name).Msg("Seeded course")
	}

	if err := seedAdmin(ctx, dbPool, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// seedAdmin creates the bootstrap admin when no admin profile exists yet.
// Credentials come from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD with
// development defaults.
func seedAdmin(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	var adminCount int64
	if err := dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = 'admin'`).Scan(&adminCount); err != nil {
		return fmt.Errorf("error counting admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		lgr.Warn().Msg("Seeding default admin with the development password; change it immediately")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing seed admin password: %w", err)
	}

	rawMeta, err := json.Marshal(map[string]interface{}{
		"full_name": "管理者",
		"role":      "admin",
	})
	if err != nil {
		return fmt.Errorf("error encoding seed admin metadata: %w", err)
	}

	// The materialization trigger creates the profile row
	query := `
		INSERT INTO auth_accounts (email, password_hash, raw_meta, confirmed_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := dbPool.Exec(ctx, query, email, hash, rawMeta); err != nil {
		return fmt.Errorf("error seeding admin account: %w", err)
	}

	lgr.Info().Str("email", email).Msg("Seeded bootstrap admin account")
	return nil
}
