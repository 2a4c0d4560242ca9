package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/helpers"
)

// ApplicationRepository handles database operations for job applications.
// Student-scoped variants carry the owner in the SQL predicate, so a row
// belonging to someone else behaves exactly like a missing row.
type ApplicationRepository struct {
	db Querier
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// ApplicationTxQueries is the transaction-scoped surface of the application
// repository. Services obtain it through WithTx inside an owner-pinned
// transaction so the store's row policies apply to every mutation.
type ApplicationTxQueries interface {
	Create(ctx context.Context, studentID int64, req *dto.CreateApplicationRequest) (*models.Application, error)
	UpdateOwned(ctx context.Context, id, studentID int64, req *dto.UpdateApplicationRequest) (*models.Application, error)
	DeleteOwned(ctx context.Context, id, studentID int64) error
	SetReadinessFlag(ctx context.Context, id int64, column string, value bool) error
}

// WithTx returns a copy bound to a transaction
func (r *ApplicationRepository) WithTx(tx pgx.Tx) ApplicationTxQueries {
	return &ApplicationRepository{db: tx}
}

const applicationColumns = `
	id, student_id, company, position, application_date, source,
	status, document_result, resume_created, work_history_created,
	portfolio_submitted, created_at, updated_at
`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID,
		&app.StudentID,
		&app.Company,
		&app.Position,
		&app.ApplicationDate,
		&app.Source,
		&app.Status,
		&app.DocumentResult,
		&app.ResumeCreated,
		&app.WorkHistoryCreated,
		&app.PortfolioSubmitted,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a new application for a student and returns the stored row
func (r *ApplicationRepository) Create(ctx context.Context, studentID int64, req *dto.CreateApplicationRequest) (*models.Application, error) {
	query := `
		INSERT INTO applications (student_id, company, position, application_date, source, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query,
		studentID,
		strings.TrimSpace(req.Company),
		strings.TrimSpace(req.Position),
		req.ParsedApplicationDate(),
		strings.TrimSpace(req.Source),
		models.StatusPreApplication,
	))
	if err != nil {
		return nil, fmt.Errorf("error creating application: %w", err)
	}

	return app, nil
}

// GetByID retrieves an application without an ownership predicate. Admin use only.
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error getting application: %w", err)
	}

	return app, nil
}

// GetByIDForStudent retrieves an application only when the student owns it
func (r *ApplicationRepository) GetByIDForStudent(ctx context.Context, id, studentID int64) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 AND student_id = $2`

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error getting application: %w", err)
	}

	return app, nil
}

// UpdateOwned updates an application only when the student owns it and
// returns the stored row after the update
func (r *ApplicationRepository) UpdateOwned(ctx context.Context, id, studentID int64, req *dto.UpdateApplicationRequest) (*models.Application, error) {
	query := `
		UPDATE applications
		SET company = $1, position = $2, application_date = $3, source = $4,
		    status = $5, document_result = $6, updated_at = NOW()
		WHERE id = $7 AND student_id = $8
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query,
		strings.TrimSpace(req.Company),
		strings.TrimSpace(req.Position),
		req.ParsedApplicationDate(),
		strings.TrimSpace(req.Source),
		req.Status,
		req.DocumentResult,
		id,
		studentID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error updating application: %w", err)
	}

	return app, nil
}

// DeleteOwned deletes an application only when the student owns it
func (r *ApplicationRepository) DeleteOwned(ctx context.Context, id, studentID int64) error {
	query := `DELETE FROM applications WHERE id = $1 AND student_id = $2`

	result, err := r.db.Exec(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// SetReadinessFlag sets one of the document readiness flags on an application.
// The column name comes from a fixed category mapping, never from user input.
func (r *ApplicationRepository) SetReadinessFlag(ctx context.Context, id int64, column string, value bool) error {
	switch column {
	case "resume_created", "work_history_created", "portfolio_submitted":
	default:
		return fmt.Errorf("unknown readiness column %q", column)
	}

	query := fmt.Sprintf(`UPDATE applications SET %s = $1, updated_at = NOW() WHERE id = $2`, column)

	result, err := r.db.Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("error setting readiness flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// ListByStudent retrieves a filtered, paginated listing of one student's
// applications with their attachment counts
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID int64, filter *dto.ApplicationFilterRequest) ([]dto.ApplicationResponse, int64, error) {
	conditions := []string{"student_id = $1"}
	args := []interface{}{studentID}
	argPos := 2

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Company != "" {
		conditions = append(conditions, fmt.Sprintf("company ILIKE $%d", argPos))
		args = append(args, "%"+filter.Company+"%")
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM applications WHERE %s`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf(`
		SELECT a.id, a.student_id, a.company, a.position, a.application_date,
		       a.source, a.status, a.document_result, a.resume_created,
		       a.work_history_created, a.portfolio_submitted,
		       (SELECT COUNT(*) FROM application_attachments t WHERE t.application_id = a.id) AS attachment_count
		FROM applications a
		WHERE %s
		ORDER BY a.application_date DESC NULLS LAST, a.id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var apps []dto.ApplicationResponse
	for rows.Next() {
		var a dto.ApplicationResponse
		var appDate *time.Time
		if err := rows.Scan(
			&a.ID,
			&a.StudentID,
			&a.Company,
			&a.Position,
			&appDate,
			&a.Source,
			&a.Status,
			&a.DocumentResult,
			&a.ResumeCreated,
			&a.WorkHistoryCreated,
			&a.PortfolioSubmitted,
			&a.AttachmentCount,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning application: %w", err)
		}
		a.ApplicationDate = appDate
		apps = append(apps, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating applications: %w", err)
	}

	return apps, total, nil
}

// GetDashboardStats computes the admin aggregate view in one round trip per axis
func (r *ApplicationRepository) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	stats := &dto.DashboardStatsResponse{
		CountsByStatus: make(map[string]int64),
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&stats.TotalStudents); err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	summaryQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1),
		       COUNT(*) FILTER (WHERE resume_created),
		       COUNT(*) FILTER (WHERE work_history_created),
		       COUNT(*) FILTER (WHERE portfolio_submitted)
		FROM applications
	`
	err := r.db.QueryRow(ctx, summaryQuery, models.StatusOffer).Scan(
		&stats.TotalApplications,
		&stats.OfferCount,
		&stats.ResumeReady,
		&stats.WorkHistoryReady,
		&stats.PortfolioReady,
	)
	if err != nil {
		return nil, fmt.Errorf("error aggregating applications: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning status count: %w", err)
		}
		stats.CountsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	if stats.TotalApplications > 0 {
		stats.OfferRate = float64(stats.OfferCount) / float64(stats.TotalApplications)
	}

	return stats, nil
}
