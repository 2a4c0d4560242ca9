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

// AttachmentRepository handles database operations for application attachments
type AttachmentRepository struct {
	db Querier
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// AttachmentTxQueries is the transaction-scoped surface of the attachment
// repository, obtained through WithTx inside an owner-pinned transaction.
type AttachmentTxQueries interface {
	Create(ctx context.Context, att *models.Attachment) (*models.Attachment, error)
	Delete(ctx context.Context, id int64) error
	CountByApplicationAndCategory(ctx context.Context, applicationID int64, category models.AttachmentCategory) (int64, error)
}

// WithTx returns a copy bound to a transaction
func (r *AttachmentRepository) WithTx(tx pgx.Tx) AttachmentTxQueries {
	return &AttachmentRepository{db: tx}
}

const attachmentColumns = `
	id, application_id, file_path, file_name, category, file_size, created_at
`

func scanAttachment(row pgx.Row) (*models.Attachment, error) {
	var att models.Attachment
	err := row.Scan(
		&att.ID,
		&att.ApplicationID,
		&att.FilePath,
		&att.FileName,
		&att.Category,
		&att.FileSize,
		&att.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// Create inserts an attachment row and returns the stored record
func (r *AttachmentRepository) Create(ctx context.Context, att *models.Attachment) (*models.Attachment, error) {
	query := `
		INSERT INTO application_attachments (application_id, file_path, file_name, category, file_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attachmentColumns

	stored, err := scanAttachment(r.db.QueryRow(ctx, query,
		att.ApplicationID,
		att.FilePath,
		att.FileName,
		att.Category,
		att.FileSize,
	))
	if err != nil {
		return nil, fmt.Errorf("error creating attachment: %w", err)
	}

	return stored, nil
}

// GetByIDForStudent retrieves an attachment only when the student owns the
// parent application
func (r *AttachmentRepository) GetByIDForStudent(ctx context.Context, id, studentID int64) (*models.Attachment, error) {
	query := `
		SELECT t.id, t.application_id, t.file_path, t.file_name, t.category, t.file_size, t.created_at
		FROM application_attachments t
		JOIN applications a ON a.id = t.application_id
		WHERE t.id = $1 AND a.student_id = $2
	`

	att, err := scanAttachment(r.db.QueryRow(ctx, query, id, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("error getting attachment: %w", err)
	}

	return att, nil
}

// ListByApplication retrieves all attachments of an application, newest first
func (r *AttachmentRepository) ListByApplication(ctx context.Context, applicationID int64) ([]models.Attachment, error) {
	query := `
		SELECT ` + attachmentColumns + `
		FROM application_attachments
		WHERE application_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning attachment: %w", err)
		}
		attachments = append(attachments, *att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}

	return attachments, nil
}

// CountByApplication returns the number of attachments on an application
func (r *AttachmentRepository) CountByApplication(ctx context.Context, applicationID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM application_attachments WHERE application_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, applicationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting attachments: %w", err)
	}

	return count, nil
}

// CountByApplicationAndCategory returns the number of attachments of one
// category on an application
func (r *AttachmentRepository) CountByApplicationAndCategory(ctx context.Context, applicationID int64, category models.AttachmentCategory) (int64, error) {
	query := `SELECT COUNT(*) FROM application_attachments WHERE application_id = $1 AND category = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, applicationID, category).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting attachments by category: %w", err)
	}

	return count, nil
}

// Delete removes an attachment row
func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM application_attachments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting attachment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrAttachmentNotFound
	}

	return nil
}

// ListAllPaths returns every stored file path. Used by the orphan sweeper to
// reconcile storage objects against the database.
func (r *AttachmentRepository) ListAllPaths(ctx context.Context) (map[string]struct{}, error) {
	query := `SELECT file_path FROM application_attachments`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing attachment paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("error scanning attachment path: %w", err)
		}
		paths[path] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment paths: %w", err)
	}

	return paths, nil
}
