package models

import (
	"time"
)

// ActivityLog defines one append-only audit record based on the 'activity_logs' table.
// Rows are written exactly once per logged operation and never mutated or deleted
// by the application. Detail payloads are redacted before they reach this struct.
type ActivityLog struct {
	ID            int64          `json:"id" db:"id"`
	RequestID     string         `json:"requestId" db:"request_id"`
	Environment   string         `json:"environment" db:"environment"`
	Severity      string         `json:"severity" db:"severity"`
	Timestamp     time.Time      `json:"timestamp" db:"timestamp"`
	ActorID       *int64         `json:"actorId,omitempty" db:"actor_id"` // NULL for anonymous actors
	ActorRole     string         `json:"actorRole" db:"actor_role"`
	IPAddress     string         `json:"ipAddress" db:"ip_address"`
	UserAgent     string         `json:"userAgent" db:"user_agent"`
	Referer       string         `json:"referer" db:"referer"`
	ActionType    string         `json:"actionType" db:"action_type"`
	Resource      string         `json:"resource" db:"resource"`
	Action        string         `json:"action" db:"action"` // Composite "<resource>:<action_type>"
	Endpoint      string         `json:"endpoint" db:"endpoint"`
	StatusCode    int            `json:"statusCode" db:"status_code"`
	DurationMs    int64          `json:"durationMs" db:"duration_ms"`
	ErrorMessage  string         `json:"errorMessage,omitempty" db:"error_message"`
	ErrorStack    string         `json:"errorStack,omitempty" db:"error_stack"`
	Details       map[string]any `json:"details,omitempty" db:"details"`
	OldValue      map[string]any `json:"oldValue,omitempty" db:"old_value"`
	NewValue      map[string]any `json:"newValue,omitempty" db:"new_value"`
	ChangedFields []string       `json:"changedFields,omitempty" db:"changed_fields"`
	InputParams   map[string]any `json:"inputParams,omitempty" db:"input_params"`
}
