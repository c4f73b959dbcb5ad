package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio-cms/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	asyncTimeout = 2 * time.Second
	defaultLimit = 100
	maxLimit     = 500
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

// Event is one recorded admin action. ActorEmail is empty for anonymous
// callers.
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorEmail   string
	ResourceType string
	ResourceID   string
	Action       string
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// Logger writes audit events to Postgres.
type Logger struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewLogger(pool *pgxpool.Pool, log zerolog.Logger) *Logger {
	return &Logger{pool: pool, log: log}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	prepare(event)

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, actor_email, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := l.pool.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.ActorEmail,
		event.ResourceType,
		event.ResourceID,
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)

	return err
}

// Record logs asynchronously with a bounded timeout so the request never
// waits on the audit write.
func (l *Logger) Record(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	go func() {
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			l.log.Error().Err(err).Str("event_type", event.EventType).Msg("audit log failed")
		}
	}()
}

// prepare fills defaults and scrubs secrets from free-form fields.
func prepare(event *Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.EventType == "" {
		event.EventType = event.Action + "_" + event.ResourceType
	}
	if event.Metadata != nil {
		event.Metadata = logger.SanitizeMap(event.Metadata)
	}
	event.ErrorMessage = logger.SanitizeLogMessage(event.ErrorMessage)
}

// QueryFilter narrows Query results.
type QueryFilter struct {
	ActorEmail   string
	ResourceType string
	Action       string
	Status       *Status
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Offset       int
}

// Query retrieves audit events, newest first
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	query := `
		SELECT id, event_type, actor_email, resource_type, resource_id,
		       action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		FROM audit_events
		WHERE 1=1
	`
	args := []any{}
	argCount := 1

	if filter.ActorEmail != "" {
		query += fmt.Sprintf(" AND actor_email = $%d", argCount)
		args = append(args, filter.ActorEmail)
		argCount++
	}

	if filter.ResourceType != "" {
		query += fmt.Sprintf(" AND resource_type = $%d", argCount)
		args = append(args, filter.ResourceType)
		argCount++
	}

	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argCount)
		args = append(args, filter.Action)
		argCount++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.StartTime != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argCount)
		args = append(args, *filter.StartTime)
		argCount++
	}

	if filter.EndTime != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argCount)
		args = append(args, *filter.EndTime)
		argCount++
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, clampLimit(filter.Limit))
	argCount++

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event := &Event{}
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.ActorEmail,
			&event.ResourceType,
			&event.ResourceID,
			&event.Action,
			&event.Status,
			&event.IPAddress,
			&event.UserAgent,
			&event.RequestID,
			&metadataJSON,
			&event.ErrorMessage,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, err
			}
		}

		events = append(events, event)
	}

	return events, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
