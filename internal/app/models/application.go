package models

import (
	"time"
)

// ApplicationStatus is the self-reported progress of an application.
// Values are stored verbatim (Japanese UI labels double as enum values).
type ApplicationStatus string

const (
	StatusPreApplication    ApplicationStatus = "応募前"
	StatusInProgress        ApplicationStatus = "応募中"
	StatusDocumentScreening ApplicationStatus = "書類選考中"
	StatusInterviewing      ApplicationStatus = "面接中"
	StatusOffer             ApplicationStatus = "内定"
	StatusRejected          ApplicationStatus = "不採用"
	StatusWithdrawn         ApplicationStatus = "辞退"
)

// ApplicationStatuses lists every valid status value
var ApplicationStatuses = []ApplicationStatus{
	StatusPreApplication,
	StatusInProgress,
	StatusDocumentScreening,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

// IsValid reports whether the status is a member of the enum
func (s ApplicationStatus) IsValid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DocumentResult is the document screening outcome. Blank means not yet recorded.
type DocumentResult string

const (
	DocumentPassed  DocumentResult = "通過"
	DocumentFailed  DocumentResult = "不合格"
	DocumentPending DocumentResult = "待ち"
	DocumentBlank   DocumentResult = ""
)

// IsValid reports whether the result is a member of the enum
func (d DocumentResult) IsValid() bool {
	switch d {
	case DocumentPassed, DocumentFailed, DocumentPending, DocumentBlank:
		return true
	}
	return false
}

// AttachmentCategory classifies an uploaded document
type AttachmentCategory string

const (
	CategoryResume    AttachmentCategory = "resume"
	CategoryCV        AttachmentCategory = "cv"
	CategoryPortfolio AttachmentCategory = "portfolio"
	CategoryOther     AttachmentCategory = "other"
)

// IsValid reports whether the category is a member of the enum
func (c AttachmentCategory) IsValid() bool {
	switch c {
	case CategoryResume, CategoryCV, CategoryPortfolio, CategoryOther:
		return true
	}
	return false
}

// Application defines the application model based on the 'applications' table.
// The three readiness flags are derived from attachments, not edited directly.
type Application struct {
	ID                 int64             `json:"id" db:"id"`
	StudentID          int64             `json:"studentId" db:"student_id"`
	Company            string            `json:"company" db:"company"`
	Position           string            `json:"position" db:"position"`
	ApplicationDate    *time.Time        `json:"applicationDate,omitempty" db:"application_date"` // Pointer for potential NULL
	Source             string            `json:"source" db:"source"`
	Status             ApplicationStatus `json:"status" db:"status"`
	DocumentResult     DocumentResult    `json:"documentResult" db:"document_result"`
	ResumeCreated      bool              `json:"resumeCreated" db:"resume_created"`
	WorkHistoryCreated bool              `json:"workHistoryCreated" db:"work_history_created"`
	PortfolioSubmitted bool              `json:"portfolioSubmitted" db:"portfolio_submitted"`
	CreatedAt          time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time         `json:"updatedAt" db:"updated_at"`
}

// Attachment limits, enforced server-side
const (
	MaxAttachmentsPerApplication = 10
	MaxAttachmentSizeBytes       = 5 * 1024 * 1024
)

// Attachment defines the attachment model based on the 'application_attachments' table
type Attachment struct {
	ID            int64              `json:"id" db:"id"`
	ApplicationID int64              `json:"applicationId" db:"application_id"`
	FilePath      string             `json:"filePath" db:"file_path"` // Collision-resistant storage path
	FileName      string             `json:"fileName" db:"file_name"` // Original name, for display only
	Category      AttachmentCategory `json:"category" db:"category"`
	FileSize      int64              `json:"fileSize" db:"file_size"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
}
