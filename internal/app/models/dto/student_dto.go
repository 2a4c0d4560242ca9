package dto

import (
	"strings"
	"time"

	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/validation"
)

// UpdateStudentProfileRequest is the admin edit payload for a student record
type UpdateStudentProfileRequest struct {
	FullName       string `json:"fullName" form:"full_name"`
	CourseID       int64  `json:"courseId" form:"course_id"`
	GraduationDate string `json:"graduationDate" form:"graduation_date"` // "2006-01-02" or empty
}

// Validate checks the edit payload. Pure; returns the first failure.
func (r *UpdateStudentProfileRequest) Validate() error {
	name := validation.NewStringValidation(r.FullName).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength)
	if strings.TrimSpace(r.FullName) == "" {
		return apperrors.NewBadRequestError("氏名を入力してください")
	}
	if !name.Validate() {
		return apperrors.NewBadRequestError("氏名は100文字以内で入力してください")
	}
	if r.CourseID <= 0 {
		return apperrors.NewBadRequestError("コースを選択してください")
	}
	if r.GraduationDate != "" {
		if _, err := time.Parse("2006-01-02", r.GraduationDate); err != nil {
			return apperrors.NewBadRequestError("卒業日の形式が不正です")
		}
	}
	return nil
}

// ParsedGraduationDate returns the graduation date or nil when unset
func (r *UpdateStudentProfileRequest) ParsedGraduationDate() *time.Time {
	if r.GraduationDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", r.GraduationDate)
	if err != nil {
		return nil
	}
	return &t
}

// InviteUserRequest is the admin payload for inviting a new user
type InviteUserRequest struct {
	Email    string `json:"email" form:"email"`
	FullName string `json:"fullName" form:"full_name"`
	CourseID int64  `json:"courseId" form:"course_id"`
	Role     string `json:"role" form:"role"` // Defaults to student when empty
}

// Validate checks the invitation payload. Pure; returns the first failure.
func (r *InviteUserRequest) Validate() error {
	if !validation.IsValidEmail(r.Email) {
		return apperrors.NewBadRequestError("有効なメールアドレスを入力してください")
	}
	if strings.TrimSpace(r.FullName) == "" {
		return apperrors.NewBadRequestError("氏名を入力してください")
	}
	if len([]rune(r.FullName)) > validation.NameMaxLength {
		return apperrors.NewBadRequestError("氏名は100文字以内で入力してください")
	}
	if r.Role != "" && r.Role != "admin" && r.Role != "student" {
		return apperrors.NewBadRequestError("不正なロールです")
	}
	// Students need a course; admins do not
	if (r.Role == "" || r.Role == "student") && r.CourseID <= 0 {
		return apperrors.NewBadRequestError("コースを選択してください")
	}
	return nil
}

// StudentFilterRequest carries admin search/filter parameters
type StudentFilterRequest struct {
	Name     string `form:"name"`
	CourseID int64  `form:"courseId"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// StudentResponse is one row of the admin student listing
type StudentResponse struct {
	ID               int64      `json:"id"`
	FullName         string     `json:"fullName"`
	CourseID         int64      `json:"courseId"`
	CourseName       string     `json:"courseName"`
	GraduationDate   *time.Time `json:"graduationDate,omitempty"`
	ApplicationCount int64      `json:"applicationCount"`
}

// StudentListResponse is the paginated admin student listing
type StudentListResponse struct {
	Students       []StudentResponse `json:"students"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}
