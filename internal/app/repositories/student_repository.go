package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/helpers"
)

// StudentRepository handles database operations for student records
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByID retrieves a student with its profile and course
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT s.id, s.course_id, s.graduation_date,
		       p.id, p.full_name, p.role, p.created_at, p.updated_at,
		       c.id, c.name
		FROM students s
		JOIN profiles p ON p.id = s.id
		JOIN courses c ON c.id = s.course_id
		WHERE s.id = $1
	`

	var student models.Student
	var profile models.Profile
	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.CourseID,
		&student.GraduationDate,
		&profile.ID,
		&profile.FullName,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&course.ID,
		&course.Name,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	student.Profile = &profile
	student.Course = &course
	return &student, nil
}

// Update replaces the course and graduation date of a student record.
// The display name lives on the profile and is updated separately.
func (r *StudentRepository) Update(ctx context.Context, id int64, courseID int64, graduationDate interface{}) error {
	query := `UPDATE students SET course_id = $1, graduation_date = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, courseID, graduationDate, id)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// List retrieves a filtered, paginated listing of students with their
// application counts. Name filtering is a case-insensitive partial match.
func (r *StudentRepository) List(ctx context.Context, filter *dto.StudentFilterRequest) ([]dto.StudentResponse, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("p.full_name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}
	if filter.CourseID > 0 {
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", argPos))
		args = append(args, filter.CourseID)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM students s
		JOIN profiles p ON p.id = s.id
		WHERE %s
	`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf(`
		SELECT s.id, p.full_name, s.course_id, c.name, s.graduation_date,
		       (SELECT COUNT(*) FROM applications a WHERE a.student_id = s.id) AS application_count
		FROM students s
		JOIN profiles p ON p.id = s.id
		JOIN courses c ON c.id = s.course_id
		WHERE %s
		ORDER BY p.full_name, s.id
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []dto.StudentResponse
	for rows.Next() {
		var s dto.StudentResponse
		if err := rows.Scan(
			&s.ID,
			&s.FullName,
			&s.CourseID,
			&s.CourseName,
			&s.GraduationDate,
			&s.ApplicationCount,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating students: %w", err)
	}

	return students, total, nil
}
