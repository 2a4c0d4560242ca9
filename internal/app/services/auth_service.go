package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/audit"
	"github.com/ymori/careertrack/internal/pkg/auth"
)

// AuthService defines the interface for session and credential operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, string, error)
	Logout(ctx context.Context, profileID int64)
	UpdatePassword(ctx context.Context, profileID int64, req *dto.UpdatePasswordRequest) error
	ConfirmInvite(ctx context.Context, req *dto.ConfirmInviteRequest) (*dto.LoginResponse, string, error)
}

type authServiceImpl struct {
	accountRepo     *repositories.AccountRepository
	profileRepo     *repositories.ProfileRepository
	inviteTokenRepo *repositories.InviteTokenRepository
	jwtService      *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	accountRepo *repositories.AccountRepository,
	profileRepo *repositories.ProfileRepository,
	inviteTokenRepo *repositories.InviteTokenRepository,
	jwtService *auth.JWTService,
) AuthService {
	return &authServiceImpl{
		accountRepo:     accountRepo,
		profileRepo:     profileRepo,
		inviteTokenRepo: inviteTokenRepo,
		jwtService:      jwtService,
	}
}

// Login verifies credentials and issues a session token. Every failure mode
// surfaces the same ErrInvalidCredentials so a caller cannot probe which
// addresses have accounts.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, string, error) {
	fail := func(reason string) (*dto.LoginResponse, string, error) {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "login_failed",
			Resource:   "auth",
			Message:    "Login rejected",
			StatusCode: http.StatusUnauthorized,
			Details: map[string]interface{}{
				"email":  req.Email,
				"reason": reason,
			},
		})
		return nil, "", apperrors.ErrInvalidCredentials
	}

	account, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fail("unknown account")
	}

	// Invited accounts cannot sign in until the invite is confirmed
	if account.ConfirmedAt == nil {
		return fail("unconfirmed account")
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		return fail("wrong password")
	}

	profile, err := s.profileRepo.GetByID(ctx, account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("error loading profile after login: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(profile.ID, account.Email, string(profile.Role))
	if err != nil {
		return nil, "", fmt.Errorf("error issuing session token: %w", err)
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "login_success",
		Resource:   "auth",
		Message:    "Login succeeded",
		Details: map[string]interface{}{
			"email":     account.Email,
			"profileId": profile.ID,
		},
	})

	return &dto.LoginResponse{
		ProfileID: profile.ID,
		FullName:  profile.FullName,
		Role:      string(profile.Role),
		Redirect:  redirectForRole(profile.Role),
	}, token, nil
}

// Logout records the sign-out; cookie teardown belongs to the controller
func (s *authServiceImpl) Logout(ctx context.Context, profileID int64) {
	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "logout",
		Resource:   "auth",
		Message:    "Logout",
		Details: map[string]interface{}{
			"profileId": profileID,
		},
	})
}

// UpdatePassword replaces the caller's password
func (s *authServiceImpl) UpdatePassword(ctx context.Context, profileID int64, req *dto.UpdatePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.accountRepo.UpdatePassword(ctx, profileID, hash); err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "password_update_failed",
			Resource:   "auth",
			Message:    "Password update failed",
			Err:        err,
		})
		return err
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "password_updated",
		Resource:   "auth",
		Message:    "Password updated",
		Details: map[string]interface{}{
			"profileId": profileID,
		},
	})

	return nil
}

// ConfirmInvite consumes an invite token, sets the initial password and signs
// the new user in
func (s *authServiceImpl) ConfirmInvite(ctx context.Context, req *dto.ConfirmInviteRequest) (*dto.LoginResponse, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	token, err := s.inviteTokenRepo.GetValid(ctx, req.Token)
	if err != nil {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "invite_confirm_failed",
			Resource:   "auth",
			Message:    "Invite confirmation rejected",
			StatusCode: http.StatusBadRequest,
			Err:        err,
		})
		return nil, "", apperrors.ErrInvalidInviteToken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.accountRepo.Confirm(ctx, token.AccountID, hash); err != nil {
		return nil, "", err
	}

	if err := s.inviteTokenRepo.MarkUsed(ctx, token.ID); err != nil {
		return nil, "", err
	}

	account, err := s.accountRepo.GetByID(ctx, token.AccountID)
	if err != nil {
		return nil, "", fmt.Errorf("error loading confirmed account: %w", err)
	}

	profile, err := s.profileRepo.GetByID(ctx, token.AccountID)
	if err != nil {
		return nil, "", fmt.Errorf("error loading confirmed profile: %w", err)
	}

	sessionToken, err := s.jwtService.GenerateSessionToken(profile.ID, account.Email, string(profile.Role))
	if err != nil {
		return nil, "", fmt.Errorf("error issuing session token: %w", err)
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "invite_confirmed",
		Resource:   "auth",
		Message:    "Invite confirmed",
		Details: map[string]interface{}{
			"profileId": profile.ID,
			"email":     account.Email,
		},
	})

	return &dto.LoginResponse{
		ProfileID: profile.ID,
		FullName:  profile.FullName,
		Role:      string(profile.Role),
		Redirect:  redirectForRole(profile.Role),
	}, sessionToken, nil
}

// redirectForRole returns the role-scoped dashboard path
func redirectForRole(role models.RoleType) string {
	if role == models.RoleAdmin {
		return "/admin"
	}
	return "/student"
}
