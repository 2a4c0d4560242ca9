package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/audit"
	"github.com/ymori/careertrack/internal/pkg/cache"
	"github.com/ymori/careertrack/internal/pkg/dberrors"
	"github.com/ymori/careertrack/internal/pkg/email"
	"github.com/ymori/careertrack/internal/pkg/logger"
)

// InviteTokenTTL bounds how long an emailed confirmation link stays valid
const InviteTokenTTL = 24 * time.Hour

// InviteService defines the interface for admin user invitation
type InviteService interface {
	InviteUser(ctx context.Context, req *dto.InviteUserRequest) error
}

// inviteServiceImpl is the only component holding the elevated pool. Account
// rows live behind row-level security that no per-request role can write, so
// invitation is the single bypass point and stays as small as possible.
type inviteServiceImpl struct {
	elevated        *pgxpool.Pool
	profileRepo     *repositories.ProfileRepository
	inviteTokenRepo *repositories.InviteTokenRepository
	emailService    email.EmailService
	statsCache      *cache.Cache
	allowedDomains  []string
}

// NewInviteService creates a new invite service instance
func NewInviteService(
	elevated *pgxpool.Pool,
	profileRepo *repositories.ProfileRepository,
	inviteTokenRepo *repositories.InviteTokenRepository,
	emailService email.EmailService,
	statsCache *cache.Cache,
	allowedDomains []string,
) InviteService {
	return &inviteServiceImpl{
		elevated:        elevated,
		profileRepo:     profileRepo,
		inviteTokenRepo: inviteTokenRepo,
		emailService:    emailService,
		statsCache:      statsCache,
		allowedDomains:  allowedDomains,
	}
}

// inviteMeta is the payload the materialization trigger reads from raw_meta
type inviteMeta struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	CourseID int64  `json:"course_id,omitempty"`
}

// InviteUser creates an invited account and dispatches the confirmation mail.
// The profiles/students rows are materialized by a database trigger reading
// raw_meta; the handler verifies that post-condition instead of inserting them.
func (s *inviteServiceImpl) InviteUser(ctx context.Context, req *dto.InviteUserRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if s.elevated == nil {
		return fmt.Errorf("invite requires elevated store credentials: %w", apperrors.ErrPermissionDenied)
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkDomain(normalizedEmail); err != nil {
		audit.FromContext(ctx).Warn(ctx, audit.Entry{
			ActionType: "invite_rejected",
			Resource:   "user",
			Message:    "Invite email domain not allowed",
			StatusCode: http.StatusBadRequest,
			Details: map[string]interface{}{
				"email": normalizedEmail,
			},
		})
		return err
	}

	role := req.Role
	if role == "" {
		role = string(models.RoleStudent)
	}

	meta := inviteMeta{
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
	}
	if role == string(models.RoleStudent) {
		meta.CourseID = req.CourseID
	}

	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("error encoding invite metadata: %w", err)
	}

	var accountID int64
	insertQuery := `
		INSERT INTO auth_accounts (email, password_hash, raw_meta, invited_at)
		VALUES ($1, '', $2, NOW())
		RETURNING id
	`
	if err := s.elevated.QueryRow(ctx, insertQuery, normalizedEmail, rawMeta).Scan(&accountID); err != nil {
		// Translate the one well-known provider failure; pass the rest through
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "invite_failed",
			Resource:   "user",
			Message:    "Invite account creation failed",
			Err:        err,
			Details: map[string]interface{}{
				"email": normalizedEmail,
			},
		})
		return fmt.Errorf("error creating invited account: %w", err)
	}

	// The trigger must have materialized the profile row; a missing row means
	// the store is misconfigured and the invite is unusable.
	if _, err := s.profileRepo.GetByID(ctx, accountID); err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "invite_failed",
			Resource:   "user",
			Message:    "Invite materialization missing",
			Err:        err,
			Details: map[string]interface{}{
				"accountId": accountID,
			},
		})
		return fmt.Errorf("invited profile was not materialized: %w", err)
	}

	token, err := email.GenerateInviteToken()
	if err != nil {
		return fmt.Errorf("error generating invite token: %w", err)
	}

	if err := s.inviteTokenRepo.Create(ctx, accountID, token, time.Now().Add(InviteTokenTTL)); err != nil {
		return err
	}

	if err := s.emailService.SendInvitationEmail(normalizedEmail, meta.FullName, token); err != nil {
		audit.FromContext(ctx).Error(ctx, audit.Entry{
			ActionType: "invite_email_failed",
			Resource:   "user",
			Message:    "Invitation email dispatch failed",
			Err:        err,
			Details: map[string]interface{}{
				"email": normalizedEmail,
			},
		})
		return fmt.Errorf("error sending invitation email: %w", err)
	}

	audit.FromContext(ctx).Info(ctx, audit.Entry{
		ActionType: "user_invited",
		Resource:   "user",
		Message:    "User invited",
		Details: map[string]interface{}{
			"email":     normalizedEmail,
			"role":      role,
			"accountId": accountID,
		},
	})

	if err := s.statsCache.Delete(ctx, cache.DashboardStatsKey); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate dashboard stats cache")
	}

	return nil
}

// checkDomain enforces the configured allow-list; an empty list disables it
func (s *inviteServiceImpl) checkDomain(emailAddr string) error {
	if len(s.allowedDomains) == 0 {
		return nil
	}

	at := strings.LastIndex(emailAddr, "@")
	if at < 0 {
		return apperrors.ErrInvalidEmail
	}
	domain := strings.ToLower(emailAddr[at+1:])

	for _, allowed := range s.allowedDomains {
		if domain == allowed {
			return nil
		}
	}

	return apperrors.ErrEmailDomainNotAllowed
}
