package dto

import (
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/validation"
)

// LoginRequest is the credential payload for password sign-in
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate checks the login payload. Pure; returns the first failure.
func (r *LoginRequest) Validate() error {
	if !validation.IsValidEmail(r.Email) {
		return apperrors.NewBadRequestError("有効なメールアドレスを入力してください")
	}
	if r.Password == "" {
		return apperrors.NewBadRequestError("パスワードを入力してください")
	}
	return nil
}

// UpdatePasswordRequest carries a new password and its confirmation
type UpdatePasswordRequest struct {
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// Validate checks length bounds and cross-field equality
func (r *UpdatePasswordRequest) Validate() error {
	if len(r.Password) < validation.PasswordMinLength {
		return apperrors.NewBadRequestError("パスワードは6文字以上で入力してください")
	}
	if len(r.ConfirmPassword) < validation.PasswordMinLength {
		return apperrors.NewBadRequestError("確認用パスワードは6文字以上で入力してください")
	}
	if r.Password != r.ConfirmPassword {
		return apperrors.NewBadRequestError("パスワードが一致しません")
	}
	return nil
}

// ConfirmInviteRequest verifies an emailed invite token and sets the initial password
type ConfirmInviteRequest struct {
	Token           string `json:"token" form:"token"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// Validate checks token presence then delegates to the password rules
func (r *ConfirmInviteRequest) Validate() error {
	if r.Token == "" {
		return apperrors.NewBadRequestError("確認トークンが見つかりません")
	}
	pw := UpdatePasswordRequest{Password: r.Password, ConfirmPassword: r.ConfirmPassword}
	return pw.Validate()
}

// LoginResponse is returned on successful sign-in
type LoginResponse struct {
	ProfileID int64  `json:"profileId"`
	FullName  string `json:"fullName"`
	Role      string `json:"role"`
	Redirect  string `json:"redirect"` // Role-scoped dashboard path
}
