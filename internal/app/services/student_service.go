package services

import (
	"context"
	"fmt"

	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/audit"
	"github.com/ymori/careertrack/internal/pkg/cache"
	"github.com/ymori/careertrack/internal/pkg/helpers"
	"github.com/ymori/careertrack/internal/pkg/logger"
)

// StudentService defines the interface for admin-side student management
type StudentService interface {
	List(ctx context.Context, filter *dto.StudentFilterRequest) (*dto.StudentListResponse, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	UpdateProfile(ctx context.Context, id int64, req *dto.UpdateStudentProfileRequest) error
	Delete(ctx context.Context, id int64) error
	Courses(ctx context.Context) ([]models.Course, error)
}

type studentServiceImpl struct {
	studentRepo *repositories.StudentRepository
	profileRepo *repositories.ProfileRepository
	courseRepo  *repositories.CourseRepository
	statsCache  *cache.Cache
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo *repositories.StudentRepository,
	profileRepo *repositories.ProfileRepository,
	courseRepo *repositories.CourseRepository,
	statsCache *cache.Cache,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		profileRepo: profileRepo,
		courseRepo:  courseRepo,
		statsCache:  statsCache,
	}
}

// List retrieves the filtered admin student listing
func (s *studentServiceImpl) List(ctx context.Context, filter *dto.StudentFilterRequest) (*dto.StudentListResponse, error) {
	students, total, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.StudentListResponse{
		Students:       students,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// Get retrieves one student with profile and course
func (s *studentServiceImpl) Get(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}
	return s.studentRepo.GetByID(ctx, id)
}

// UpdateProfile edits a student's name, course and graduation date, recording
// the before/after payloads for the audit diff
func (s *studentServiceImpl) UpdateProfile(ctx context.Context, id int64, req *dto.UpdateStudentProfileRequest) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	// Editing against a missing course reads as a validation failure, not a
	// mysterious constraint error
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return apperrors.NewBadRequestError("コースを選択してください")
	}

	before, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "student_update_failed",
			Resource:   "student",
			Message:    "Student edit target missing",
			Err:        err,
			Details:    map[string]interface{}{"studentId": id},
		})
		return err
	}

	if err := s.profileRepo.UpdateFullName(ctx, id, req.FullName); err != nil {
		return err
	}
	if err := s.studentRepo.Update(ctx, id, req.CourseID, req.ParsedGraduationDate()); err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "student_update_failed",
			Resource:   "student",
			Message:    "Student edit failed",
			Err:        err,
			Details:    map[string]interface{}{"studentId": id},
		})
		return err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "student_updated",
		Resource:   "student",
		Message:    "Student updated",
		Details:    map[string]interface{}{"studentId": id},
		OldValue:   studentToMap(before),
		NewValue: map[string]interface{}{
			"full_name":       req.FullName,
			"course_id":       req.CourseID,
			"graduation_date": req.GraduationDate,
		},
	})

	s.invalidateStats(ctx)
	return nil
}

// Delete removes a student; the store cascades dependent rows
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}

	if err := s.profileRepo.Delete(ctx, id); err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "student_delete_failed",
			Resource:   "student",
			Message:    "Student delete failed",
			Err:        err,
			Details:    map[string]interface{}{"studentId": id},
		})
		return err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "student_deleted",
		Resource:   "student",
		Message:    "Student deleted",
		Details:    map[string]interface{}{"studentId": id},
	})

	s.invalidateStats(ctx)
	return nil
}

// Courses lists the selectable course reference data
func (s *studentServiceImpl) Courses(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

func (s *studentServiceImpl) invalidateStats(ctx context.Context) {
	if err := s.statsCache.Delete(ctx, cache.DashboardStatsKey); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate dashboard stats cache")
	}
}

// studentToMap flattens a student row for audit payloads
func studentToMap(s *models.Student) map[string]interface{} {
	m := map[string]interface{}{
		"course_id": s.CourseID,
	}
	if s.Profile != nil {
		m["full_name"] = s.Profile.FullName
	}
	if s.GraduationDate != nil {
		m["graduation_date"] = s.GraduationDate.Format("2006-01-02")
	} else {
		m["graduation_date"] = ""
	}
	return m
}
