package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appauth "github.com/ymori/careertrack/internal/app/auth"
	"github.com/ymori/careertrack/internal/pkg/auth"
)

func newTestJWTService(sessionExp, refreshWindow time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:     "test-secret",
		SessionExp:    sessionExp,
		RefreshWindow: refreshWindow,
		TokenIssuer:   "careertrack.test",
	})
}

func newSessionRouter(m *SessionMiddleware, gotProfileID *int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	protected := router.Group("/", m.RequireSession())
	protected.GET("/me", func(c *gin.Context) {
		if id, ok := appauth.ProfileIDFromContext(c.Request.Context()); ok {
			*gotProfileID = id
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireSession_MissingCookie(t *testing.T) {
	m := NewSessionMiddleware(newTestJWTService(time.Hour, time.Minute), nil, false)
	var profileID int64
	router := newSessionRouter(m, &profileID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if w.Header().Get("X-Redirect") != "/login" {
		t.Errorf("X-Redirect = %q, want /login", w.Header().Get("X-Redirect"))
	}
}

func TestRequireSession_InvalidCookieCleared(t *testing.T) {
	m := NewSessionMiddleware(newTestJWTService(time.Hour, time.Minute), nil, false)
	var profileID int64
	router := newSessionRouter(m, &profileID)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("invalid session cookie was not cleared")
	}
}

func TestRequireSession_ValidCookiePutsProfileOnContext(t *testing.T) {
	jwtService := newTestJWTService(time.Hour, time.Minute)
	m := NewSessionMiddleware(jwtService, nil, false)
	var profileID int64
	router := newSessionRouter(m, &profileID)

	token, err := jwtService.GenerateSessionToken(7, "student@example.com", "student")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if profileID != 7 {
		t.Errorf("profile id on context = %d, want 7", profileID)
	}
}

func TestRequireSession_SlidingRefresh(t *testing.T) {
	// Refresh window wider than the session lifetime, so every valid token
	// is inside it and must be reissued
	jwtService := newTestJWTService(time.Hour, 2*time.Hour)
	m := NewSessionMiddleware(jwtService, nil, false)
	var profileID int64
	router := newSessionRouter(m, &profileID)

	token, err := jwtService.GenerateSessionToken(7, "student@example.com", "student")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var refreshed bool
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.Value != "" && c.MaxAge > 0 {
			refreshed = true
		}
	}
	if !refreshed {
		t.Error("no refreshed session cookie was issued inside the refresh window")
	}
}

func TestRequireSession_OutsideRefreshWindowNoNewCookie(t *testing.T) {
	jwtService := newTestJWTService(time.Hour, time.Minute)
	m := NewSessionMiddleware(jwtService, nil, false)
	var profileID int64
	router := newSessionRouter(m, &profileID)

	token, err := jwtService.GenerateSessionToken(7, "student@example.com", "student")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			t.Errorf("unexpected cookie reissue outside refresh window: %v", c)
		}
	}
}
