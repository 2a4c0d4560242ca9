package audit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/ymori/careertrack/internal/app/models"
)

type captureRecorder struct {
	rows []*models.ActivityLog
	err  error
}

func (r *captureRecorder) Insert(ctx context.Context, entry *models.ActivityLog) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, entry)
	return nil
}

type panicRecorder struct{}

func (panicRecorder) Insert(ctx context.Context, entry *models.ActivityLog) error {
	panic("recorder exploded")
}

type staticResolver struct {
	actor *Actor
	err   error
}

func (r staticResolver) ResolveActor(ctx context.Context) (*Actor, error) {
	return r.actor, r.err
}

func newTestLogger(recorder Recorder, resolver IdentityResolver) *Logger {
	req := httptest.NewRequest("POST", "/api/v1/applications", nil)
	req.Header.Set("X-Request-ID", "req-test-1")
	req.Header.Set("User-Agent", "test-agent")
	return NewLogger(req, "test", resolver, recorder, zerolog.Nop())
}

func TestLogger_PersistsRedactedRecord(t *testing.T) {
	rec := &captureRecorder{}
	l := newTestLogger(rec, staticResolver{actor: &Actor{ID: 42, Role: "student"}})

	l.Info(context.Background(), Entry{
		ActionType: "login_failed",
		Resource:   "auth",
		Message:    "Login rejected",
		Details: map[string]interface{}{
			"email":    "jdoe@example.com",
			"password": "hunter2",
		},
	})

	if len(rec.rows) != 1 {
		t.Fatalf("expected 1 persisted row, got %d", len(rec.rows))
	}
	row := rec.rows[0]

	if row.RequestID != "req-test-1" {
		t.Errorf("request id = %q, want reused header value", row.RequestID)
	}
	if row.ActorID == nil || *row.ActorID != 42 {
		t.Errorf("actor id = %v, want 42", row.ActorID)
	}
	if row.ActorRole != "student" {
		t.Errorf("actor role = %q, want student", row.ActorRole)
	}
	if row.Action != "auth:login_failed" {
		t.Errorf("action = %q", row.Action)
	}
	if row.Details["password"] != MaskValue {
		t.Errorf("password in persisted details = %v, want masked", row.Details["password"])
	}
	if row.Details["email"] != "j***@example.com" {
		t.Errorf("email in persisted details = %v, want masked", row.Details["email"])
	}
}

func TestLogger_ComputesChangedFields(t *testing.T) {
	rec := &captureRecorder{}
	l := newTestLogger(rec, staticResolver{})

	l.Info(context.Background(), Entry{
		ActionType: "application_updated",
		Resource:   "application",
		OldValue:   map[string]interface{}{"status": "応募中", "company": "ACME"},
		NewValue:   map[string]interface{}{"status": "面接中", "company": "ACME"},
	})

	row := rec.rows[0]
	if len(row.ChangedFields) != 1 || row.ChangedFields[0] != "status" {
		t.Errorf("changed fields = %v, want [status]", row.ChangedFields)
	}
}

func TestLogger_DefaultStatusCodes(t *testing.T) {
	rec := &captureRecorder{}
	l := newTestLogger(rec, staticResolver{})

	l.Info(context.Background(), Entry{ActionType: "a", Resource: "r"})
	l.Error(context.Background(), Entry{ActionType: "b", Resource: "r"})
	l.Warn(context.Background(), Entry{ActionType: "c", Resource: "r", StatusCode: 403})

	if rec.rows[0].StatusCode != 200 {
		t.Errorf("info default status = %d, want 200", rec.rows[0].StatusCode)
	}
	if rec.rows[1].StatusCode != 500 {
		t.Errorf("error default status = %d, want 500", rec.rows[1].StatusCode)
	}
	if rec.rows[2].StatusCode != 403 {
		t.Errorf("explicit status = %d, want 403", rec.rows[2].StatusCode)
	}
}

func TestLogger_InsertFailureDoesNotPropagate(t *testing.T) {
	rec := &captureRecorder{err: errors.New("store down")}
	l := newTestLogger(rec, staticResolver{})

	// Must return normally despite the failed insert
	l.Info(context.Background(), Entry{ActionType: "a", Resource: "r"})
}

func TestLogger_RecorderPanicSuppressed(t *testing.T) {
	l := newTestLogger(panicRecorder{}, staticResolver{})

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("panic escaped the audit logger: %v", r)
		}
	}()
	l.Info(context.Background(), Entry{ActionType: "a", Resource: "r"})
}

func TestLogger_ResolverFailureLeavesActorEmpty(t *testing.T) {
	rec := &captureRecorder{}
	l := newTestLogger(rec, staticResolver{err: errors.New("no identity")})

	l.Warn(context.Background(), Entry{ActionType: "csrf_rejected", Resource: "auth"})

	row := rec.rows[0]
	if row.ActorID != nil {
		t.Errorf("actor id = %v, want nil for unresolved identity", row.ActorID)
	}
	if row.ActorRole != "" {
		t.Errorf("actor role = %q, want empty", row.ActorRole)
	}
}

func TestFromContext_FallbackIsUsable(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("FromContext must never return nil")
	}
	// Must not panic without a recorder
	l.Info(context.Background(), Entry{ActionType: "a", Resource: "r"})
}

func TestWithContext_RoundTrip(t *testing.T) {
	rec := &captureRecorder{}
	l := newTestLogger(rec, staticResolver{})

	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext did not return the attached logger")
	}
}
