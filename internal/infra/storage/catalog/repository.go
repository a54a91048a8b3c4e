package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Repository читает метаданные салонов, мастеров и услуг.
// Сервис расписания эти данные не изменяет.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория метаданных
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetMaster получает мастера вместе с владельцем салона
func (r *Repository) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"m.id",
		"m.salon_id",
		"m.user_id",
		"m.name",
		"s.owner_id",
		"s.name",
	).
		From("masters m").
		Join("salons s ON s.id = m.salon_id").
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - build select query: %w", ErrBuildQuery, err)
	}

	var master domain.Master
	var userID sql.NullInt64
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&master.ID,
		&master.SalonID,
		&userID,
		&master.Name,
		&master.SalonOwnerID,
		&master.SalonName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - scan master: %w", ErrScanRow, err)
	}

	if userID.Valid {
		master.UserID = &userID.Int64
	}
	return &master, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"salon_id",
		"name",
		"duration_minutes",
		"category",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %w", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.SalonID,
		&service.Name,
		&service.DurationMinutes,
		&service.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}
	return &service, nil
}

// GetSalon получает салон по ID
func (r *Repository) GetSalon(ctx context.Context, id int64) (*domain.Salon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"address",
		"categories",
		"created_at",
	).
		From("salons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSalon - build select query: %w", ErrBuildQuery, err)
	}

	var salon domain.Salon
	var categories string
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&salon.ID,
		&salon.OwnerID,
		&salon.Name,
		&salon.Address,
		&categories,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSalonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSalon - scan salon: %w", ErrScanRow, err)
	}

	salon.Categories = splitCategories(categories)
	salon.CreatedAt = createdAt.Time
	return &salon, nil
}

func splitCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			categories = append(categories, p)
		}
	}
	return categories
}
