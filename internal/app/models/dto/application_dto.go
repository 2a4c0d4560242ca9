package dto

import (
	"strings"
	"time"

	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/validation"
)

// CreateApplicationRequest is the student payload for logging a new application
type CreateApplicationRequest struct {
	Company         string `json:"company" form:"company"`
	Position        string `json:"position" form:"position"`
	Source          string `json:"source" form:"source"`
	ApplicationDate string `json:"applicationDate" form:"application_date"` // "2006-01-02" or empty
}

// Validate checks the payload. Pure; returns the first failure.
func (r *CreateApplicationRequest) Validate() error {
	if strings.TrimSpace(r.Company) == "" {
		return apperrors.NewBadRequestError("企業名を入力してください")
	}
	if len([]rune(r.Company)) > validation.TextMaxLength {
		return apperrors.NewBadRequestError("企業名は200文字以内で入力してください")
	}
	if strings.TrimSpace(r.Position) == "" {
		return apperrors.NewBadRequestError("職種を入力してください")
	}
	if len([]rune(r.Position)) > validation.TextMaxLength {
		return apperrors.NewBadRequestError("職種は200文字以内で入力してください")
	}
	if len([]rune(r.Source)) > validation.TextMaxLength {
		return apperrors.NewBadRequestError("応募経路は200文字以内で入力してください")
	}
	if r.ApplicationDate != "" {
		if _, err := time.Parse("2006-01-02", r.ApplicationDate); err != nil {
			return apperrors.NewBadRequestError("応募日の形式が不正です")
		}
	}
	return nil
}

// ParsedApplicationDate returns the application date or nil when unset
func (r *CreateApplicationRequest) ParsedApplicationDate() *time.Time {
	if r.ApplicationDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", r.ApplicationDate)
	if err != nil {
		return nil
	}
	return &t
}

// UpdateApplicationRequest extends the create payload with status axes.
// The readiness flags are derived from attachments and deliberately absent here.
type UpdateApplicationRequest struct {
	CreateApplicationRequest
	Status         string `json:"status" form:"status"`
	DocumentResult string `json:"documentResult" form:"document_result"`
}

// Validate checks the payload including enum membership. Pure; returns the first failure.
func (r *UpdateApplicationRequest) Validate() error {
	if err := r.CreateApplicationRequest.Validate(); err != nil {
		return err
	}
	// Status is required on update. An omitted value is rejected rather than
	// defaulted, so a partial payload can never reset stored progress.
	if !models.ApplicationStatus(r.Status).IsValid() {
		return apperrors.NewBadRequestError("不正なステータスです")
	}
	if !models.DocumentResult(r.DocumentResult).IsValid() {
		return apperrors.NewBadRequestError("不正な書類選考結果です")
	}
	return nil
}

// ApplicationFilterRequest carries list filter parameters
type ApplicationFilterRequest struct {
	Status   string `form:"status"`
	Company  string `form:"company"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// ApplicationResponse is one application row
type ApplicationResponse struct {
	ID                 int64      `json:"id"`
	StudentID          int64      `json:"studentId"`
	Company            string     `json:"company"`
	Position           string     `json:"position"`
	ApplicationDate    *time.Time `json:"applicationDate,omitempty"`
	Source             string     `json:"source"`
	Status             string     `json:"status"`
	DocumentResult     string     `json:"documentResult"`
	ResumeCreated      bool       `json:"resumeCreated"`
	WorkHistoryCreated bool       `json:"workHistoryCreated"`
	PortfolioSubmitted bool       `json:"portfolioSubmitted"`
	AttachmentCount    int64      `json:"attachmentCount"`
}

// ApplicationListResponse is the paginated application listing
type ApplicationListResponse struct {
	Applications   []ApplicationResponse `json:"applications"`
	PaginationInfo PaginationInfo        `json:"pagination"`
}

// NewApplicationResponse converts a model row to its response shape
func NewApplicationResponse(app *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                 app.ID,
		StudentID:          app.StudentID,
		Company:            app.Company,
		Position:           app.Position,
		ApplicationDate:    app.ApplicationDate,
		Source:             app.Source,
		Status:             string(app.Status),
		DocumentResult:     string(app.DocumentResult),
		ResumeCreated:      app.ResumeCreated,
		WorkHistoryCreated: app.WorkHistoryCreated,
		PortfolioSubmitted: app.PortfolioSubmitted,
	}
}
