package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ymori/careertrack/internal/app/models"
)

// ActivityLogRepository handles the append-only audit store. There is no
// update or delete path on purpose.
type ActivityLogRepository struct {
	db *pgxpool.Pool
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Insert appends one activity log row
func (r *ActivityLogRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (
			request_id, environment, severity, timestamp, actor_id, actor_role,
			ip_address, user_agent, referer, action_type, resource, action,
			endpoint, status_code, duration_ms, error_message, error_stack,
			details, old_value, new_value, changed_fields, input_params
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err := r.db.Exec(ctx, query,
		entry.RequestID,
		entry.Environment,
		entry.Severity,
		entry.Timestamp,
		entry.ActorID,
		entry.ActorRole,
		entry.IPAddress,
		entry.UserAgent,
		entry.Referer,
		entry.ActionType,
		entry.Resource,
		entry.Action,
		entry.Endpoint,
		entry.StatusCode,
		entry.DurationMs,
		entry.ErrorMessage,
		entry.ErrorStack,
		entry.Details,
		entry.OldValue,
		entry.NewValue,
		entry.ChangedFields,
		entry.InputParams,
	)
	if err != nil {
		return fmt.Errorf("error inserting activity log: %w", err)
	}

	return nil
}

// ListRecent retrieves the newest audit rows for the admin view
func (r *ActivityLogRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, request_id, environment, severity, timestamp, actor_id,
		       actor_role, ip_address, user_agent, referer, action_type,
		       resource, action, endpoint, status_code, duration_ms,
		       error_message, error_stack, details, old_value, new_value,
		       changed_fields, input_params
		FROM activity_logs
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing activity logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(
			&l.ID,
			&l.RequestID,
			&l.Environment,
			&l.Severity,
			&l.Timestamp,
			&l.ActorID,
			&l.ActorRole,
			&l.IPAddress,
			&l.UserAgent,
			&l.Referer,
			&l.ActionType,
			&l.Resource,
			&l.Action,
			&l.Endpoint,
			&l.StatusCode,
			&l.DurationMs,
			&l.ErrorMessage,
			&l.ErrorStack,
			&l.Details,
			&l.OldValue,
			&l.NewValue,
			&l.ChangedFields,
			&l.InputParams,
		); err != nil {
			return nil, fmt.Errorf("error scanning activity log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity logs: %w", err)
	}

	return logs, nil
}
