package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/ymori/careertrack/internal/app/auth"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/pkg/auth"
	"github.com/ymori/careertrack/internal/pkg/logger"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "ct_session"

// SessionMiddleware gates protected routes on a valid session cookie and
// refreshes cookies nearing expiry. Role checks are done with fresh store
// reads by the authorization service, never from the token's role hint.
type SessionMiddleware struct {
	jwtService *auth.JWTService
	authz      *appauth.AuthorizationService
	secure     bool
}

// NewSessionMiddleware creates a new SessionMiddleware. secure marks issued
// cookies Secure and should be true outside local development.
func NewSessionMiddleware(jwtService *auth.JWTService, authz *appauth.AuthorizationService, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		jwtService: jwtService,
		authz:      authz,
		secure:     secure,
	}
}

// SetSessionCookie issues the session cookie on a response
func (m *SessionMiddleware) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(m.jwtService.SessionTTL().Seconds()), "/", "", m.secure, true)
}

// ClearSessionCookie expires the session cookie
func (m *SessionMiddleware) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", m.secure, true)
}

// RequireSession validates the session cookie, refreshes it when inside the
// refresh window, and stores the authenticated profile id on the request
// context. Unauthenticated traffic is turned away with a login redirect hint.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			m.reject(c)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.ClearSessionCookie(c)
			m.reject(c)
			return
		}

		// Sliding session: reissue the cookie when it is close to expiry
		if m.jwtService.ShouldRefresh(claims) {
			if refreshed, err := m.jwtService.GenerateSessionToken(claims.ProfileID, claims.Email, claims.Role); err == nil {
				m.SetSessionCookie(c, refreshed)
			} else {
				logger.Warn().Err(err).Msg("Failed to refresh session token")
			}
		}

		ctx := appauth.WithProfileID(c.Request.Context(), claims.ProfileID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin gates a route group on the admin role via a fresh role read
func (m *SessionMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.requireRole(models.RoleAdmin)
}

// RequireStudent gates a route group on the student role via a fresh role read
func (m *SessionMiddleware) RequireStudent() gin.HandlerFunc {
	return m.requireRole(models.RoleStudent)
}

func (m *SessionMiddleware) requireRole(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var err error
		switch role {
		case models.RoleAdmin:
			_, err = m.authz.RequireAdmin(ctx)
		default:
			_, err = m.authz.RequireStudent(ctx)
		}

		if err != nil {
			// A generic message; never reveal which check failed
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse("権限がありません"))
			return
		}

		c.Next()
	}
}

func (m *SessionMiddleware) reject(c *gin.Context) {
	c.Header("X-Redirect", "/login")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("認証が必要です"))
}
