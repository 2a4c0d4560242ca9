package audit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ymori/careertrack/internal/app/models"
)

// Severity levels for audit records
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Actor is the freshly resolved acting identity
type Actor struct {
	ID   int64
	Role string
}

// IdentityResolver resolves the acting identity from the request context.
// The logger calls it on every Log invocation instead of trusting a value
// captured earlier, so logging works before and after auth checks alike.
type IdentityResolver interface {
	ResolveActor(ctx context.Context) (*Actor, error)
}

// Recorder persists one activity log row
type Recorder interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
}

// Entry describes one operation to record
type Entry struct {
	ActionType  string
	Resource    string
	Message     string
	StatusCode  int // Optional; defaulted from severity when zero
	Err         interface{}
	Details     map[string]interface{}
	OldValue    map[string]interface{}
	NewValue    map[string]interface{}
	InputParams map[string]interface{}
}

// Logger is the per-request audit recorder. It is constructed once per
// inbound request and must never abort the caller's primary operation: a
// failed insert degrades to the diagnostic log and returns normally.
type Logger struct {
	requestID   string
	environment string
	ip          string
	userAgent   string
	referer     string
	endpoint    string
	start       time.Time

	resolver IdentityResolver
	recorder Recorder
	diag     zerolog.Logger
}

// NewLogger captures request context for a new audit logger. The request id
// is reused from the X-Request-ID header when present, otherwise generated.
func NewLogger(r *http.Request, environment string, resolver IdentityResolver, recorder Recorder, diag zerolog.Logger) *Logger {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	return &Logger{
		requestID:   requestID,
		environment: environment,
		ip:          clientIP(r),
		userAgent:   r.UserAgent(),
		referer:     r.Referer(),
		endpoint:    r.Method + " " + r.URL.Path,
		start:       time.Now(),
		resolver:    resolver,
		recorder:    recorder,
		diag:        diag,
	}
}

// clientIP prefers the first entry of X-Forwarded-For over the remote address
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

// RequestID returns the id captured at construction
func (l *Logger) RequestID() string {
	return l.requestID
}

// Log writes one audit record. It never panics and never returns an error:
// an insert failure is reported on the diagnostic channel only, so a logging
// outage cannot block the operation being observed.
func (l *Logger) Log(ctx context.Context, severity Severity, e Entry) {
	defer func() {
		if r := recover(); r != nil {
			l.diag.Error().Interface("panic", r).Str("requestId", l.requestID).Msg("Audit logger panic suppressed")
		}
	}()

	// Re-resolve the acting identity fresh; never trust a cached value
	var actorID *int64
	actorRole := ""
	if l.resolver != nil {
		if actor, err := l.resolver.ResolveActor(ctx); err == nil && actor != nil {
			id := actor.ID
			actorID = &id
			actorRole = actor.Role
		}
	}

	duration := time.Since(l.start)

	errMsg, errStack := splitError(e.Err)

	statusCode := e.StatusCode
	if statusCode == 0 {
		if severity == SeverityError {
			statusCode = http.StatusInternalServerError
		} else {
			statusCode = http.StatusOK
		}
	}

	var changed []string
	if e.OldValue != nil && e.NewValue != nil {
		changed = ChangedFields(e.OldValue, e.NewValue)
	}

	row := &models.ActivityLog{
		RequestID:     l.requestID,
		Environment:   l.environment,
		Severity:      string(severity),
		Timestamp:     time.Now(),
		ActorID:       actorID,
		ActorRole:     actorRole,
		IPAddress:     l.ip,
		UserAgent:     l.userAgent,
		Referer:       l.referer,
		ActionType:    e.ActionType,
		Resource:      e.Resource,
		Action:        e.Resource + ":" + e.ActionType,
		Endpoint:      l.endpoint,
		StatusCode:    statusCode,
		DurationMs:    duration.Milliseconds(),
		ErrorMessage:  errMsg,
		ErrorStack:    errStack,
		Details:       RedactMap(e.Details),
		OldValue:      RedactMap(e.OldValue),
		NewValue:      RedactMap(e.NewValue),
		ChangedFields: changed,
		InputParams:   RedactMap(e.InputParams),
	}

	if l.recorder == nil {
		l.emitDiagnostic(severity, row, e)
		return
	}

	if err := l.recorder.Insert(ctx, row); err != nil {
		// The audit store is unavailable; fall back to the diagnostic channel
		l.diag.Error().Err(err).Str("requestId", l.requestID).Msg("Failed to persist audit record")
		l.emitDiagnostic(severity, row, e)
	}
}

// emitDiagnostic mirrors the attempted record to the local log stream
func (l *Logger) emitDiagnostic(severity Severity, row *models.ActivityLog, e Entry) {
	evt := l.diag.Info()
	switch severity {
	case SeverityWarn:
		evt = l.diag.Warn()
	case SeverityError:
		evt = l.diag.Error()
	}
	evt.Str("requestId", l.requestID).
		Str("action", row.Action).
		Str("endpoint", row.Endpoint).
		Int("statusCode", row.StatusCode).
		Int64("durationMs", row.DurationMs).
		Interface("details", row.Details).
		Msg(e.Message)
}

// splitError separates message and stack for error values; anything that is
// not an error is coerced to a string message with no stack.
func splitError(errVal interface{}) (message, stack string) {
	if errVal == nil {
		return "", ""
	}

	if err, ok := errVal.(error); ok {
		message = err.Error()
		// %+v surfaces wrapped chains / stack traces when the error carries them
		if verbose := fmt.Sprintf("%+v", err); verbose != message {
			stack = verbose
		}
		return message, stack
	}

	return fmt.Sprint(errVal), ""
}

// Info logs with INFO severity
func (l *Logger) Info(ctx context.Context, e Entry) {
	l.Log(ctx, SeverityInfo, e)
}

// Warn logs with WARN severity
func (l *Logger) Warn(ctx context.Context, e Entry) {
	l.Log(ctx, SeverityWarn, e)
}

// Error logs with ERROR severity
func (l *Logger) Error(ctx context.Context, e Entry) {
	l.Log(ctx, SeverityError, e)
}

type contextKey struct{}

// WithContext attaches the logger to a context
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the request's audit logger. Callers outside the request
// pipeline get a diagnostic-only logger rather than nil.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return &Logger{
		requestID:   uuid.New().String(),
		environment: "unknown",
		start:       time.Now(),
		diag:        log.Logger,
	}
}
