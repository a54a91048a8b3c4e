package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Repository журнал административных действий (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал. Время записи задается вызывающим кодом (UTC).
func (r *Repository) Append(ctx context.Context, event *domain.AuditEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("audit_log").
		Columns(
			"event_id",
			"actor_id",
			"actor_role",
			"action",
			"entity",
			"entity_id",
			"details",
			"created_at",
		).
		Values(
			event.EventID,
			event.ActorID,
			string(event.ActorRole),
			string(event.Action),
			event.Entity,
			event.EntityID,
			event.Details,
			event.CreatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&event.ID); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// List возвращает записи за период [from, to) в хронологическом порядке
func (r *Repository) List(ctx context.Context, from, to time.Time) ([]*domain.AuditEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"event_id",
		"actor_id",
		"actor_role",
		"action",
		"entity",
		"entity_id",
		"details",
		"created_at",
	).
		From("audit_log").
		Where(squirrel.GtOrEq{"created_at": from.UTC()}).
		Where(squirrel.Lt{"created_at": to.UTC()}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.AuditEvent, 0)
	for rows.Next() {
		var e domain.AuditEvent
		var createdAt sql.NullTime
		if err := rows.Scan(
			&e.ID,
			&e.EventID,
			&e.ActorID,
			&e.ActorRole,
			&e.Action,
			&e.Entity,
			&e.EntityID,
			&e.Details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: List - scan event: %w", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrScanRow, err)
	}
	return events, nil
}

// DeleteOlderThan удаляет записи старше указанного момента и возвращает их количество
func (r *Repository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("audit_log").
		Where(squirrel.Lt{"created_at": before.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - get rows affected: %w", ErrExecQuery, err)
	}
	return deleted, nil
}
