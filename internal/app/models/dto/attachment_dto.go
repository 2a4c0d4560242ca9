package dto

import (
	"time"

	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
)

// UploadAttachmentRequest is the multipart form payload for an attachment upload.
// The file itself arrives as the "file" form part. There is no client-supplied
// count field; the server re-counts from the store.
type UploadAttachmentRequest struct {
	Category string `form:"category"`
}

// Validate checks enum membership. Pure; returns the first failure.
func (r *UploadAttachmentRequest) Validate() error {
	if r.Category == "" {
		return apperrors.NewBadRequestError("ファイルとカテゴリは必須です")
	}
	if !models.AttachmentCategory(r.Category).IsValid() {
		return apperrors.NewBadRequestError("不正なカテゴリです")
	}
	return nil
}

// AttachmentResponse is one attachment row, with a short-lived signed download URL
type AttachmentResponse struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	FileName      string    `json:"fileName"`
	Category      string    `json:"category"`
	FileSize      int64     `json:"fileSize"`
	CreatedAt     time.Time `json:"createdAt"`
	DownloadURL   string    `json:"downloadUrl,omitempty"`
}

// NewAttachmentResponse converts a model row to its response shape
func NewAttachmentResponse(att *models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:            att.ID,
		ApplicationID: att.ApplicationID,
		FileName:      att.FileName,
		Category:      string(att.Category),
		FileSize:      att.FileSize,
		CreatedAt:     att.CreatedAt,
	}
}
