package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/ymori/careertrack/internal/app/auth"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/services"
	"github.com/ymori/careertrack/internal/middleware"
)

// AuthController handles sign-in, sign-out and credential endpoints
type AuthController struct {
	authService services.AuthService
	session     *middleware.SessionMiddleware
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, session *middleware.SessionMiddleware) *AuthController {
	return &AuthController{
		authService: authService,
		session:     session,
	}
}

// Login handles password sign-in and issues the session cookie
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	resp, token, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.session.SetSessionCookie(ctx, token)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Logout tears the session down
func (c *AuthController) Logout(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	if id, ok := appauth.ProfileIDFromContext(reqCtx); ok {
		c.authService.Logout(reqCtx, id)
	}

	c.session.ClearSessionCookie(ctx)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "ログアウトしました"}))
}

// Signup is intentionally disabled; accounts exist only through admin invites
func (c *AuthController) Signup(ctx *gin.Context) {
	ctx.JSON(http.StatusForbidden, dto.NewErrorResponse("新規登録は無効です。管理者からの招待が必要です"))
}

// UpdatePassword replaces the caller's password
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	profileID, ok := appauth.ProfileIDFromContext(reqCtx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("認証が必要です"))
		return
	}

	var req dto.UpdatePasswordRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.authService.UpdatePassword(reqCtx, profileID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "パスワードを更新しました"}))
}

// ConfirmInvite consumes an emailed invite token, sets the initial password
// and signs the new user in
func (c *AuthController) ConfirmInvite(ctx *gin.Context) {
	var req dto.ConfirmInviteRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	resp, token, err := c.authService.ConfirmInvite(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.session.SetSessionCookie(ctx, token)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
