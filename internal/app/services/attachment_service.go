package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/db"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/audit"
	"github.com/ymori/careertrack/internal/pkg/cache"
	"github.com/ymori/careertrack/internal/pkg/filestorage"
	"github.com/ymori/careertrack/internal/pkg/logger"
)

// AttachmentService defines the interface for application document uploads
type AttachmentService interface {
	Upload(ctx context.Context, studentID, applicationID int64, fileName string, size int64, r io.Reader, category models.AttachmentCategory) (*models.Attachment, error)
	Delete(ctx context.Context, studentID, attachmentID int64) error
	List(ctx context.Context, studentID, applicationID int64) ([]dto.AttachmentResponse, error)
}

// attachmentStore is the slice of the attachment repository this service
// depends on
type attachmentStore interface {
	GetByIDForStudent(ctx context.Context, id, studentID int64) (*models.Attachment, error)
	CountByApplication(ctx context.Context, applicationID int64) (int64, error)
	ListByApplication(ctx context.Context, applicationID int64) ([]models.Attachment, error)
	WithTx(tx pgx.Tx) repositories.AttachmentTxQueries
}

type attachmentServiceImpl struct {
	database        ownerTxRunner
	attachmentRepo  attachmentStore
	applicationRepo applicationStore
	storage         filestorage.ObjectStorage
	bucket          string
	signedURLTTL    time.Duration
	statsCache      statsInvalidator
}

// NewAttachmentService creates a new attachment service instance
func NewAttachmentService(
	database *db.PostgresDB,
	attachmentRepo *repositories.AttachmentRepository,
	applicationRepo *repositories.ApplicationRepository,
	storage filestorage.ObjectStorage,
	bucket string,
	signedURLTTL time.Duration,
	statsCache *cache.Cache,
) AttachmentService {
	return &attachmentServiceImpl{
		database:        database,
		attachmentRepo:  attachmentRepo,
		applicationRepo: applicationRepo,
		storage:         storage,
		bucket:          bucket,
		signedURLTTL:    signedURLTTL,
		statsCache:      statsCache,
	}
}

// categoryFlagColumn maps an attachment category to the readiness flag it
// drives on the parent application. The "other" category drives none.
func categoryFlagColumn(category models.AttachmentCategory) (string, bool) {
	switch category {
	case models.CategoryResume:
		return "resume_created", true
	case models.CategoryCV:
		return "work_history_created", true
	case models.CategoryPortfolio:
		return "portfolio_submitted", true
	default:
		return "", false
	}
}

// Upload stores a document and records it against an owned application.
// Checks run cheapest-first so rejected bytes never reach storage: category,
// size, ownership, then the re-counted attachment limit. A database insert
// failure after a successful storage write leaves an orphaned object for the
// cleanup sweep rather than attempting a rollback.
func (s *attachmentServiceImpl) Upload(ctx context.Context, studentID, applicationID int64, fileName string, size int64, r io.Reader, category models.AttachmentCategory) (*models.Attachment, error) {
	if !category.IsValid() {
		return nil, apperrors.ErrInvalidCategory
	}
	if size > models.MaxAttachmentSizeBytes {
		return nil, apperrors.ErrAttachmentTooLarge
	}

	if _, err := s.applicationRepo.GetByIDForStudent(ctx, applicationID, studentID); err != nil {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "attachment_upload_failed",
			Resource:   "attachment",
			Message:    "Upload target missing or not owned",
			Err:        err,
			Details:    map[string]interface{}{"applicationId": applicationID},
		})
		return nil, err
	}

	// The count is always re-read from the store; a client-supplied count is
	// never part of this decision
	count, err := s.attachmentRepo.CountByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxAttachmentsPerApplication {
		return nil, apperrors.ErrAttachmentLimit
	}

	storagePath := filestorage.GenerateObjectPath(applicationID, string(category), fileName)

	if err := s.storage.Upload(ctx, s.bucket, storagePath, r); err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "attachment_upload_failed",
			Resource:   "attachment",
			Message:    "Storage write failed",
			Err:        err,
			Details: map[string]interface{}{
				"applicationId": applicationID,
				"path":          storagePath,
			},
		})
		return nil, apperrors.ErrStorageWriteFailed
	}

	var att *models.Attachment
	err = s.database.WithOwner(ctx, studentID, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		att, txErr = s.attachmentRepo.WithTx(tx).Create(ctx, &models.Attachment{
			ApplicationID: applicationID,
			FilePath:      storagePath,
			FileName:      fileName,
			Category:      category,
			FileSize:      size,
		})
		if txErr != nil {
			return txErr
		}
		if column, ok := categoryFlagColumn(category); ok {
			return s.applicationRepo.WithTx(tx).SetReadinessFlag(ctx, applicationID, column, true)
		}
		return nil
	})
	if err != nil {
		// Orphaned storage object accepted here; the nightly sweep reconciles
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "attachment_upload_failed",
			Resource:   "attachment",
			Message:    "Attachment insert failed after storage write",
			Err:        err,
			Details: map[string]interface{}{
				"applicationId": applicationID,
				"path":          storagePath,
			},
		})
		return nil, err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "attachment_uploaded",
		Resource:   "attachment",
		Message:    "Attachment uploaded",
		Details: map[string]interface{}{
			"attachmentId":  att.ID,
			"applicationId": applicationID,
			"category":      string(category),
			"fileName":      fileName,
			"fileSize":      size,
		},
	})

	s.invalidateStats(ctx)
	return att, nil
}

// Delete removes an owned attachment, storage object first. A storage removal
// failure aborts before the database delete: a dangling row is recoverable, a
// dangling object with no row is not. Deleting the last attachment in a
// category clears the matching readiness flag.
func (s *attachmentServiceImpl) Delete(ctx context.Context, studentID, attachmentID int64) error {
	if attachmentID <= 0 {
		return fmt.Errorf("%w: invalid attachment ID", apperrors.ErrValidationFailed)
	}

	att, err := s.attachmentRepo.GetByIDForStudent(ctx, attachmentID, studentID)
	if err != nil {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "attachment_delete_failed",
			Resource:   "attachment",
			Message:    "Delete target missing or not owned",
			Err:        err,
			Details:    map[string]interface{}{"attachmentId": attachmentID},
		})
		return err
	}

	if err := s.storage.Remove(ctx, s.bucket, []string{att.FilePath}); err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "attachment_delete_failed",
			Resource:   "attachment",
			Message:    "Storage removal failed; row kept",
			Err:        err,
			Details: map[string]interface{}{
				"attachmentId": attachmentID,
				"path":         att.FilePath,
			},
		})
		return apperrors.ErrStorageRemoveFailed
	}

	err = s.database.WithOwner(ctx, studentID, func(ctx context.Context, tx pgx.Tx) error {
		if txErr := s.attachmentRepo.WithTx(tx).Delete(ctx, attachmentID); txErr != nil {
			return txErr
		}

		column, ok := categoryFlagColumn(att.Category)
		if !ok {
			return nil
		}
		remaining, txErr := s.attachmentRepo.WithTx(tx).CountByApplicationAndCategory(ctx, att.ApplicationID, att.Category)
		if txErr != nil {
			return txErr
		}
		if remaining == 0 {
			return s.applicationRepo.WithTx(tx).SetReadinessFlag(ctx, att.ApplicationID, column, false)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("attachmentId", attachmentID).Msg("Failed to delete attachment row")
		return err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "attachment_deleted",
		Resource:   "attachment",
		Message:    "Attachment deleted",
		Details: map[string]interface{}{
			"attachmentId":  attachmentID,
			"applicationId": att.ApplicationID,
			"category":      string(att.Category),
		},
	})

	s.invalidateStats(ctx)
	return nil
}

// List returns an owned application's attachments with signed download URLs
func (s *attachmentServiceImpl) List(ctx context.Context, studentID, applicationID int64) ([]dto.AttachmentResponse, error) {
	if _, err := s.applicationRepo.GetByIDForStudent(ctx, applicationID, studentID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		resp := dto.NewAttachmentResponse(&attachments[i])
		url, err := s.storage.CreateSignedURL(s.bucket, attachments[i].FilePath, s.signedURLTTL)
		if err != nil {
			logger.Warn().Err(err).Int64("attachmentId", attachments[i].ID).Msg("Failed to sign download URL")
		} else {
			resp.DownloadURL = url
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (s *attachmentServiceImpl) invalidateStats(ctx context.Context) {
	if err := s.statsCache.Delete(ctx, cache.DashboardStatsKey); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate dashboard stats cache")
	}
}
