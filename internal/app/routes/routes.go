package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ymori/careertrack/internal/app/controllers"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/middleware"
)

// SetupRouter configures all application routes. The request-context and
// origin-guard middleware are installed on the engine before any route group,
// so every mutating endpoint sits behind them.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	applicationController *controllers.ApplicationController,
	attachmentController *controllers.AttachmentController,
	fileController *controllers.FileController,
	session *middleware.SessionMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/signup", authController.Signup) // Always rejects; invite-only
		auth.POST("/confirm", authController.ConfirmInvite)
	}

	// Signed download URLs carry their own authorization
	router.GET("/files/:bucket/*path", fileController.Download)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(session.RequireSession())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.PUT("/auth/password", authController.UpdatePassword)

		// Student-owned application tracking
		student := authenticated.Group("")
		student.Use(session.RequireStudent())
		{
			applications := student.Group("/applications")
			{
				applications.GET("", applicationController.ListApplications)
				applications.POST("", applicationController.CreateApplication)
				applications.GET("/:id", applicationController.GetApplication)
				applications.PUT("/:id", applicationController.UpdateApplication)
				applications.DELETE("/:id", applicationController.DeleteApplication)

				applications.GET("/:id/attachments", attachmentController.ListAttachments)
				applications.POST("/:id/attachments", attachmentController.UploadAttachment)
				applications.DELETE("/:id/attachments/:attachmentId", attachmentController.DeleteAttachment)
			}
		}

		// Admin-side management
		admin := authenticated.Group("/admin")
		admin.Use(session.RequireAdmin())
		{
			admin.GET("/students", studentController.ListStudents)
			admin.GET("/students/:id", studentController.GetStudent)
			admin.PUT("/students/:id", studentController.UpdateStudent)
			admin.DELETE("/students/:id", studentController.DeleteStudent)

			admin.POST("/invites", studentController.InviteUser)
			admin.GET("/courses", studentController.ListCourses)
			admin.GET("/dashboard", studentController.Dashboard)
			admin.GET("/activity-logs", studentController.ListActivityLogs)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Success: true,
			Data:    gin.H{"status": "ok"},
		})
	})
}
