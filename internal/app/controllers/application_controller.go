package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/ymori/careertrack/internal/app/auth"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/services"
	"github.com/ymori/careertrack/internal/middleware"
)

// ApplicationController handles student-owned application endpoints
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// callerID reads the authenticated profile id, rejecting when absent
func callerID(ctx *gin.Context) (int64, bool) {
	id, ok := appauth.ProfileIDFromContext(ctx.Request.Context())
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("認証が必要です"))
		return 0, false
	}
	return id, true
}

// CreateApplication logs a new application for the caller
func (c *ApplicationController) CreateApplication(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	app, err := c.applicationService.Create(ctx.Request.Context(), studentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewApplicationResponse(app)
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetApplication retrieves one owned application
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	app, err := c.applicationService.Get(ctx.Request.Context(), id, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewApplicationResponse(app)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListApplications retrieves the caller's filtered listing
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	var filter dto.ApplicationFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	resp, err := c.applicationService.List(ctx.Request.Context(), studentID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateApplication edits an owned application
func (c *ApplicationController) UpdateApplication(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	app, err := c.applicationService.Update(ctx.Request.Context(), id, studentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewApplicationResponse(app)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteApplication removes an owned application
func (c *ApplicationController) DeleteApplication(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.applicationService.Delete(ctx.Request.Context(), id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "応募情報を削除しました"}))
}
