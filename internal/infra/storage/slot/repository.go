package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Repository хранилище слотов расписания (таблица schedule)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// slotColumns колонки слота вместе с длительностью услуги
var slotColumns = []string{
	"sc.id",
	"sc.master_id",
	"sc.service_id",
	"sc.slot_date",
	"sc.start_time",
	"sc.price",
	"sc.is_taken",
	"sc.is_blocked",
	"sc.created_at",
	"sv.duration_minutes",
}

// Create сохраняет новый слот (свободный и не заблокированный).
// Пересечения не проверяет: это задача вызывающего кода.
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	query, args, err := psqlbuilder.Insert("schedule").
		Columns(
			"master_id",
			"service_id",
			"slot_date",
			"start_time",
			"price",
			"is_taken",
			"is_blocked",
			"created_at",
		).
		Values(
			slot.MasterID,
			slot.ServiceID,
			slot.Date,
			slot.StartTime,
			slot.Price,
			false,
			false,
			createdAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	slot.IsTaken = false
	slot.IsBlocked = false
	slot.CreatedAt = createdAt
	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("schedule sc").
		Join("services sv ON sv.id = sc.service_id").
		Where(squirrel.Eq{"sc.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}
	return slot, nil
}

// GetOwnership получает цепочку владения слотом: салон, владелец, мастер
func (r *Repository) GetOwnership(ctx context.Context, id int64) (*domain.OwnershipChain, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.owner_id",
		"m.id",
		"m.user_id",
	).
		From("schedule sc").
		Join("masters m ON m.id = sc.master_id").
		Join("salons s ON s.id = m.salon_id").
		Where(squirrel.Eq{"sc.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOwnership - build select query: %w", ErrBuildQuery, err)
	}

	var chain domain.OwnershipChain
	var masterUserID sql.NullInt64
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&chain.SalonID,
		&chain.OwnerID,
		&chain.MasterID,
		&masterUserID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOwnership - scan ownership: %w", ErrScanRow, err)
	}

	if masterUserID.Valid {
		chain.MasterUserID = &masterUserID.Int64
	}
	return &chain, nil
}

// ListByMasterAndDate возвращает слоты мастера на дату, упорядоченные по времени.
// Читает через текущую транзакцию, поэтому видит слоты, созданные ранее в ней же.
func (r *Repository) ListByMasterAndDate(ctx context.Context, masterID int64, date types.Date, includeBlocked bool) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("schedule sc").
		Join("services sv ON sv.id = sc.service_id").
		Where(squirrel.Eq{"sc.master_id": masterID}).
		Where(squirrel.Eq{"sc.slot_date": date}).
		OrderBy("sc.start_time ASC", "sc.id ASC")

	if !includeBlocked {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sc.is_blocked": false})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByMasterAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByMasterAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var slots []*domain.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByMasterAndDate - scan slot: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByMasterAndDate - rows iteration: %w", ErrScanRow, err)
	}
	return slots, nil
}

// Delete удаляет слот, если он не занят.
// Условие is_taken проверяется в самом DELETE, поэтому конкурентное бронирование не потеряется.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_taken": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Ничего не удалено: слота нет или он занят
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrSlotTaken
}

// SetBlocked устанавливает флаг блокировки. Повторная установка того же значения не является ошибкой.
func (r *Repository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return r.setFlag(ctx, "SetBlocked", "is_blocked", id, blocked)
}

// SetTaken устанавливает флаг занятости. Повторная установка того же значения не является ошибкой.
func (r *Repository) SetTaken(ctx context.Context, id int64, taken bool) error {
	return r.setFlag(ctx, "SetTaken", "is_taken", id, taken)
}

func (r *Repository) setFlag(ctx context.Context, op, column string, id int64, value bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule").
		Set(column, value).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %w", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// TryTake атомарно занимает слот (compare-and-swap).
// Возвращает true, только если слот был свободен и не заблокирован и эта операция его заняла.
func (r *Repository) TryTake(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule").
		Set("is_taken", true).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_taken": false}).
		Where(squirrel.Eq{"is_blocked": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: TryTake - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TryTake - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TryTake - get rows affected: %w", ErrExecQuery, err)
	}
	return rowsAffected == 1, nil
}

// ListAvailable возвращает свободные и не заблокированные слоты по фильтру,
// упорядоченные по дате и времени
func (r *Repository) ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailableSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"sc.id",
		"m.salon_id",
		"sc.master_id",
		"m.name",
		"sc.service_id",
		"sv.name",
		"sv.duration_minutes",
		"sc.slot_date",
		"sc.start_time",
		"sc.price",
	).
		From("schedule sc").
		Join("masters m ON m.id = sc.master_id").
		Join("services sv ON sv.id = sc.service_id").
		Where(squirrel.Eq{"sc.is_taken": false}).
		Where(squirrel.Eq{"sc.is_blocked": false}).
		OrderBy("sc.slot_date ASC", "sc.start_time ASC", "sc.id ASC")

	if filter.MasterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sc.master_id": *filter.MasterID})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sc.service_id": *filter.ServiceID})
	}
	if filter.SalonID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"m.salon_id": *filter.SalonID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sc.slot_date": *filter.Date})
	}
	if filter.NotBefore != nil {
		selectBuilder = selectBuilder.Where(notBefore(*filter.NotBefore))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.AvailableSlot, 0)
	for rows.Next() {
		var s domain.AvailableSlot
		if err := rows.Scan(
			&s.ID,
			&s.SalonID,
			&s.MasterID,
			&s.MasterName,
			&s.ServiceID,
			&s.ServiceName,
			&s.DurationMinutes,
			&s.Date,
			&s.StartTime,
			&s.Price,
		); err != nil {
			return nil, fmt.Errorf("%w: ListAvailable - scan slot: %w", ErrScanRow, err)
		}
		slots = append(slots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - rows iteration: %w", ErrScanRow, err)
	}
	return slots, nil
}

// ListSchedule возвращает полное расписание мастера за период [from, to],
// включая занятые и заблокированные слоты с данными бронирования
func (r *Repository) ListSchedule(ctx context.Context, masterID int64, from, to types.Date) ([]*domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append([]string{}, slotColumns...)
	columns = append(columns,
		"sv.name",
		"b.id",
		"b.client_name",
		"b.client_phone",
		"b.client_email",
		"b.comment",
		"b.status",
		"b.created_at",
	)

	query, args, err := psqlbuilder.Select(columns...).
		From("schedule sc").
		Join("services sv ON sv.id = sc.service_id").
		LeftJoin("bookings b ON b.slot_id = sc.id").
		Where(squirrel.Eq{"sc.master_id": masterID}).
		Where(squirrel.GtOrEq{"sc.slot_date": from}).
		Where(squirrel.LtOrEq{"sc.slot_date": to}).
		OrderBy("sc.slot_date ASC", "sc.start_time ASC", "sc.id ASC", "b.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedule - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedule - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0)
	seen := make(map[int64]struct{})
	for rows.Next() {
		var (
			entry       domain.ScheduleEntry
			createdAt   sql.NullTime
			bookingID   sql.NullInt64
			clientName  sql.NullString
			clientPhone sql.NullString
			clientEmail sql.NullString
			comment     sql.NullString
			status      sql.NullString
			bookedAt    sql.NullTime
		)
		if err := rows.Scan(
			&entry.Slot.ID,
			&entry.Slot.MasterID,
			&entry.Slot.ServiceID,
			&entry.Slot.Date,
			&entry.Slot.StartTime,
			&entry.Slot.Price,
			&entry.Slot.IsTaken,
			&entry.Slot.IsBlocked,
			&createdAt,
			&entry.Slot.DurationMinutes,
			&entry.ServiceName,
			&bookingID,
			&clientName,
			&clientPhone,
			&clientEmail,
			&comment,
			&status,
			&bookedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListSchedule - scan entry: %w", ErrScanRow, err)
		}

		// На слот приходится не более одного живого бронирования; берем самое новое
		if _, ok := seen[entry.Slot.ID]; ok {
			continue
		}
		seen[entry.Slot.ID] = struct{}{}

		entry.Slot.CreatedAt = createdAt.Time
		if bookingID.Valid {
			entry.Booking = &domain.Booking{
				ID:          bookingID.Int64,
				SlotID:      entry.Slot.ID,
				ClientName:  clientName.String,
				ClientPhone: clientPhone.String,
				ClientEmail: nullString(clientEmail),
				Comment:     nullString(comment),
				Status:      domain.BookingStatus(status.String),
				CreatedAt:   bookedAt.Time,
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSchedule - rows iteration: %w", ErrScanRow, err)
	}
	return entries, nil
}

// CountFreeByMaster считает свободные слоты (не в прошлом) по каждому мастеру салона
func (r *Repository) CountFreeByMaster(ctx context.Context, salonID int64, now time.Time) ([]*domain.MasterStatus, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	date := types.NewDate(now)
	clock := types.NewTimeString(now)

	query, args, err := psqlbuilder.Select(
		"m.id",
		"m.name",
		"COUNT(sc.id)",
	).
		From("masters m").
		LeftJoin(
			"schedule sc ON sc.master_id = m.id AND sc.is_taken = ? AND sc.is_blocked = ? "+
				"AND (sc.slot_date > ? OR (sc.slot_date = ? AND sc.start_time >= ?))",
			false, false, date, date, clock,
		).
		Where(squirrel.Eq{"m.salon_id": salonID}).
		GroupBy("m.id", "m.name").
		OrderBy("m.name ASC", "m.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountFreeByMaster - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountFreeByMaster - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	statuses := make([]*domain.MasterStatus, 0)
	for rows.Next() {
		var status domain.MasterStatus
		if err := rows.Scan(&status.MasterID, &status.MasterName, &status.FreeSlots); err != nil {
			return nil, fmt.Errorf("%w: CountFreeByMaster - scan status: %w", ErrScanRow, err)
		}
		statuses = append(statuses, &status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountFreeByMaster - rows iteration: %w", ErrScanRow, err)
	}
	return statuses, nil
}

// ListSalonsWithAvailability возвращает салоны, у которых есть свободные слоты на дату.
// since отсекает уже прошедшие слоты (nil - без ограничения).
func (r *Repository) ListSalonsWithAvailability(ctx context.Context, date types.Date, since *time.Time) ([]*domain.SalonAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"s.id",
		"s.name",
		"s.address",
		"COUNT(sc.id)",
	).
		From("schedule sc").
		Join("masters m ON m.id = sc.master_id").
		Join("salons s ON s.id = m.salon_id").
		Where(squirrel.Eq{"sc.is_taken": false}).
		Where(squirrel.Eq{"sc.is_blocked": false}).
		Where(squirrel.Eq{"sc.slot_date": date}).
		GroupBy("s.id", "s.name", "s.address").
		OrderBy("s.name ASC", "s.id ASC")

	if since != nil {
		selectBuilder = selectBuilder.Where(notBefore(*since))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSalonsWithAvailability - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSalonsWithAvailability - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	salons := make([]*domain.SalonAvailability, 0)
	for rows.Next() {
		var salon domain.SalonAvailability
		if err := rows.Scan(&salon.SalonID, &salon.SalonName, &salon.Address, &salon.FreeSlots); err != nil {
			return nil, fmt.Errorf("%w: ListSalonsWithAvailability - scan salon: %w", ErrScanRow, err)
		}
		salons = append(salons, &salon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSalonsWithAvailability - rows iteration: %w", ErrScanRow, err)
	}
	return salons, nil
}

// notBefore условие "дата и время слота не раньше момента t" (минутная точность)
func notBefore(t time.Time) squirrel.Sqlizer {
	date := types.NewDate(t)
	clock := types.NewTimeString(t)
	return squirrel.Or{
		squirrel.Gt{"sc.slot_date": date},
		squirrel.And{
			squirrel.Eq{"sc.slot_date": date},
			squirrel.GtOrEq{"sc.start_time": clock},
		},
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var createdAt sql.NullTime
	if err := row.Scan(
		&slot.ID,
		&slot.MasterID,
		&slot.ServiceID,
		&slot.Date,
		&slot.StartTime,
		&slot.Price,
		&slot.IsTaken,
		&slot.IsBlocked,
		&createdAt,
		&slot.DurationMinutes,
	); err != nil {
		return nil, err
	}
	slot.CreatedAt = createdAt.Time
	return &slot, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
