package auth

import (
	"context"
	"net/http"

	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/audit"
)

// AuthorizationService resolves the acting identity and enforces role gates.
// Every check re-reads the role from the store on the current request; role
// hints carried by the session token are never consulted here, so a demotion
// takes effect immediately.
type AuthorizationService struct {
	profileRepo *repositories.ProfileRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(profileRepo *repositories.ProfileRepository) *AuthorizationService {
	return &AuthorizationService{profileRepo: profileRepo}
}

// ResolveCaller returns the authenticated profile ID and its fresh role
func (s *AuthorizationService) ResolveCaller(ctx context.Context) (int64, models.RoleType, error) {
	id, ok := ProfileIDFromContext(ctx)
	if !ok {
		return 0, "", apperrors.ErrUnauthorized
	}

	role, err := s.profileRepo.GetRole(ctx, id)
	if err != nil {
		// A deleted profile with a live cookie resolves to no identity
		return 0, "", apperrors.ErrUnauthorized
	}

	return id, role, nil
}

// ResolveActor implements the audit identity resolver. Failure to resolve
// yields an anonymous actor, never an error that could block logging.
func (s *AuthorizationService) ResolveActor(ctx context.Context) (*audit.Actor, error) {
	id, role, err := s.ResolveCaller(ctx)
	if err != nil {
		return nil, nil
	}
	return &audit.Actor{ID: id, Role: string(role)}, nil
}

// RequireAdmin fails closed: any resolution error denies, and every denial is
// recorded before the caller sees it.
func (s *AuthorizationService) RequireAdmin(ctx context.Context) (int64, error) {
	id, role, err := s.ResolveCaller(ctx)
	if err != nil || role != models.RoleAdmin {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "admin_unauthorized",
			Resource:   "auth",
			Message:    "Admin gate denied",
			StatusCode: http.StatusForbidden,
			Err:        err,
		})
		return 0, apperrors.ErrPermissionDenied
	}

	return id, nil
}

// RequireStudent fails closed the same way the admin gate does
func (s *AuthorizationService) RequireStudent(ctx context.Context) (int64, error) {
	id, role, err := s.ResolveCaller(ctx)
	if err != nil || role != models.RoleStudent {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "student_unauthorized",
			Resource:   "auth",
			Message:    "Student gate denied",
			StatusCode: http.StatusForbidden,
			Err:        err,
		})
		return 0, apperrors.ErrPermissionDenied
	}

	return id, nil
}
