package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/services"
	"github.com/ymori/careertrack/internal/middleware"
)

// AttachmentController handles document upload, listing and deletion
type AttachmentController struct {
	attachmentService services.AttachmentService
}

// NewAttachmentController creates a new AttachmentController
func NewAttachmentController(attachmentService services.AttachmentService) *AttachmentController {
	return &AttachmentController{
		attachmentService: attachmentService,
	}
}

// UploadAttachment stores one multipart document against an owned application
func (c *AttachmentController) UploadAttachment(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("ファイルとカテゴリは必須です"))
		return
	}

	var req dto.UploadAttachmentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("ファイルを読み込めませんでした"))
		return
	}
	defer file.Close()

	att, err := c.attachmentService.Upload(
		ctx.Request.Context(),
		studentID,
		applicationID,
		fileHeader.Filename,
		fileHeader.Size,
		file,
		models.AttachmentCategory(req.Category),
	)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewAttachmentResponse(att)
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListAttachments returns an owned application's documents with download URLs
func (c *AttachmentController) ListAttachments(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attachments, err := c.attachmentService.List(ctx.Request.Context(), studentID, applicationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(attachments))
}

// DeleteAttachment removes one owned document
func (c *AttachmentController) DeleteAttachment(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	attachmentID, ok := parseIDParam(ctx, "attachmentId")
	if !ok {
		return
	}

	if err := c.attachmentService.Delete(ctx.Request.Context(), studentID, attachmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "添付ファイルを削除しました"}))
}
