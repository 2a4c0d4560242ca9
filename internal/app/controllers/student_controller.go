package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/services"
	"github.com/ymori/careertrack/internal/middleware"
)

// StudentController handles the admin-side student management endpoints.
// Role gating happens in the route group; these handlers assume an admin.
type StudentController struct {
	studentService services.StudentService
	inviteService  services.InviteService
	statsService   services.StatsService
}

// NewStudentController creates a new StudentController
func NewStudentController(
	studentService services.StudentService,
	inviteService services.InviteService,
	statsService services.StatsService,
) *StudentController {
	return &StudentController{
		studentService: studentService,
		inviteService:  inviteService,
		statsService:   statsService,
	}
}

// ListStudents retrieves the filtered student listing
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var filter dto.StudentFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	resp, err := c.studentService.List(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetStudent retrieves one student
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// UpdateStudent edits a student's name, course and graduation date
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentProfileRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.studentService.UpdateProfile(ctx.Request.Context(), id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "受講生情報を更新しました"}))
}

// DeleteStudent removes a student and, via cascade, their data
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "受講生を削除しました"}))
}

// InviteUser creates an invited account and sends the confirmation mail
func (c *StudentController) InviteUser(ctx *gin.Context) {
	var req dto.InviteUserRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.inviteService.InviteUser(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "招待メールを送信しました"}))
}

// ListCourses returns the selectable course reference data
func (c *StudentController) ListCourses(ctx *gin.Context) {
	courses, err := c.studentService.Courses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// Dashboard returns the cached admin aggregates
func (c *StudentController) Dashboard(ctx *gin.Context) {
	stats, err := c.statsService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// ListActivityLogs returns the newest audit rows
func (c *StudentController) ListActivityLogs(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	logs, err := c.statsService.RecentActivity(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(logs))
}

// parseIDParam parses a positive int64 path parameter, writing the error
// response itself on failure
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("不正なIDです"))
		return 0, false
	}
	return id, true
}
