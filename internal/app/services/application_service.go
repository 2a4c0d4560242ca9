package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/audit"
	"github.com/ymori/careertrack/internal/db"
	"github.com/ymori/careertrack/internal/pkg/cache"
	"github.com/ymori/careertrack/internal/pkg/helpers"
	"github.com/ymori/careertrack/internal/pkg/logger"
)

// ApplicationService defines the interface for student-owned application
// operations. Every mutation carries the caller's student id down into the
// SQL predicate, so a guessed id belonging to someone else reads as not found.
type ApplicationService interface {
	Create(ctx context.Context, studentID int64, req *dto.CreateApplicationRequest) (*models.Application, error)
	Update(ctx context.Context, id, studentID int64, req *dto.UpdateApplicationRequest) (*models.Application, error)
	Delete(ctx context.Context, id, studentID int64) error
	Get(ctx context.Context, id, studentID int64) (*models.Application, error)
	List(ctx context.Context, studentID int64, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error)
}

// ownerTxRunner pins a transaction to a profile id; *db.PostgresDB implements
// it with SET LOCAL app.profile_id
type ownerTxRunner interface {
	WithOwner(ctx context.Context, profileID int64, fn db.TransactionFn) error
}

// applicationStore is the slice of the application repository the services
// depend on
type applicationStore interface {
	GetByIDForStudent(ctx context.Context, id, studentID int64) (*models.Application, error)
	ListByStudent(ctx context.Context, studentID int64, filter *dto.ApplicationFilterRequest) ([]dto.ApplicationResponse, int64, error)
	WithTx(tx pgx.Tx) repositories.ApplicationTxQueries
}

// statsInvalidator is the cache surface the mutation services need
type statsInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

type applicationServiceImpl struct {
	database        ownerTxRunner
	applicationRepo applicationStore
	statsCache      statsInvalidator
}

// NewApplicationService creates a new application service instance
func NewApplicationService(database *db.PostgresDB, applicationRepo *repositories.ApplicationRepository, statsCache *cache.Cache) ApplicationService {
	return &applicationServiceImpl{
		database:        database,
		applicationRepo: applicationRepo,
		statsCache:      statsCache,
	}
}

// Create logs a new application. Omitted optional fields default in the store:
// status to the initial value, unset dates to NULL.
func (s *applicationServiceImpl) Create(ctx context.Context, studentID int64, req *dto.CreateApplicationRequest) (*models.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var app *models.Application
	err := s.database.WithOwner(ctx, studentID, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		app, txErr = s.applicationRepo.WithTx(tx).Create(ctx, studentID, req)
		return txErr
	})
	if err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "application_create_failed",
			Resource:   "application",
			Message:    "Application create failed",
			Err:        err,
			InputParams: map[string]interface{}{
				"company":  req.Company,
				"position": req.Position,
			},
		})
		return nil, err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "application_created",
		Resource:   "application",
		Message:    "Application created",
		Details:    map[string]interface{}{"applicationId": app.ID},
		NewValue:   applicationToMap(app),
	})

	s.invalidateStats(ctx)
	return app, nil
}

// Update edits an owned application, capturing the pre-update row for the diff
func (s *applicationServiceImpl) Update(ctx context.Context, id, studentID int64, req *dto.UpdateApplicationRequest) (*models.Application, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid application ID", apperrors.ErrValidationFailed)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	before, err := s.applicationRepo.GetByIDForStudent(ctx, id, studentID)
	if err != nil {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "application_update_failed",
			Resource:   "application",
			Message:    "Application edit target missing or not owned",
			Err:        err,
			Details:    map[string]interface{}{"applicationId": id},
		})
		return nil, err
	}

	var app *models.Application
	err = s.database.WithOwner(ctx, studentID, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		app, txErr = s.applicationRepo.WithTx(tx).UpdateOwned(ctx, id, studentID, req)
		return txErr
	})
	if err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "application_update_failed",
			Resource:   "application",
			Message:    "Application update failed",
			Err:        err,
			Details:    map[string]interface{}{"applicationId": id},
		})
		return nil, err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "application_updated",
		Resource:   "application",
		Message:    "Application updated",
		Details:    map[string]interface{}{"applicationId": id},
		OldValue:   applicationToMap(before),
		NewValue:   applicationToMap(app),
	})

	s.invalidateStats(ctx)
	return app, nil
}

// Delete removes an owned application; attachments cascade in the store
func (s *applicationServiceImpl) Delete(ctx context.Context, id, studentID int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid application ID", apperrors.ErrValidationFailed)
	}

	err := s.database.WithOwner(ctx, studentID, func(ctx context.Context, tx pgx.Tx) error {
		return s.applicationRepo.WithTx(tx).DeleteOwned(ctx, id, studentID)
	})
	if err != nil {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "application_delete_failed",
			Resource:   "application",
			Message:    "Application delete failed",
			Err:        err,
			Details:    map[string]interface{}{"applicationId": id},
		})
		return err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "application_deleted",
		Resource:   "application",
		Message:    "Application deleted",
		Details:    map[string]interface{}{"applicationId": id},
	})

	s.invalidateStats(ctx)
	return nil
}

// Get retrieves one owned application
func (s *applicationServiceImpl) Get(ctx context.Context, id, studentID int64) (*models.Application, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid application ID", apperrors.ErrValidationFailed)
	}
	return s.applicationRepo.GetByIDForStudent(ctx, id, studentID)
}

// List retrieves the caller's filtered application listing
func (s *applicationServiceImpl) List(ctx context.Context, studentID int64, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error) {
	if filter.Status != "" && !models.ApplicationStatus(filter.Status).IsValid() {
		return nil, apperrors.NewBadRequestError("不正なステータスです")
	}

	apps, total, err := s.applicationRepo.ListByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ApplicationListResponse{
		Applications:   apps,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

func (s *applicationServiceImpl) invalidateStats(ctx context.Context) {
	if err := s.statsCache.Delete(ctx, cache.DashboardStatsKey); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate dashboard stats cache")
	}
}

// applicationToMap flattens an application row for audit payloads
func applicationToMap(app *models.Application) map[string]interface{} {
	m := map[string]interface{}{
		"company":         app.Company,
		"position":        app.Position,
		"source":          app.Source,
		"status":          string(app.Status),
		"document_result": string(app.DocumentResult),
	}
	if app.ApplicationDate != nil {
		m["application_date"] = app.ApplicationDate.Format("2006-01-02")
	} else {
		m["application_date"] = ""
	}
	return m
}
