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

// CourseRepository handles database operations for course reference data
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT id, name FROM courses WHERE id = $1`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(&course.ID, &course.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	return &course, nil
}

// GetAll retrieves all courses ordered by name
func (r *CourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	query := `SELECT id, name FROM courses ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Name); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// GetByName retrieves a course by its exact name
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	query := `SELECT id, name FROM courses WHERE name = $1`

	var course models.Course
	err := r.db.QueryRow(ctx, query, name).Scan(&course.ID, &course.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	return &course, nil
}

// Create inserts a course and returns its ID
func (r *CourseRepository) Create(ctx context.Context, name string) (int64, error) {
	query := `INSERT INTO courses (name) VALUES ($1) RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}
