package booking

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
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"b.id",
	"b.slot_id",
	"b.client_name",
	"b.client_phone",
	"b.client_email",
	"b.comment",
	"b.status",
	"b.confirm_expires_at",
	"b.created_at",
}

// detailsColumns колонки бронирования вместе с данными слота, мастера и салона
var detailsColumns = append(append([]string{}, bookingColumns...),
	"sc.slot_date",
	"sc.start_time",
	"sc.price",
	"sv.id",
	"sv.name",
	"m.id",
	"m.name",
	"m.user_id",
	"s.id",
	"s.name",
	"s.owner_id",
)

// Create сохраняет бронирование.
// Вызывается внутри транзакции бронирования вместе с захватом слота.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"slot_id",
			"client_name",
			"client_phone",
			"client_email",
			"comment",
			"status",
			"confirm_expires_at",
			"created_at",
		).
		Values(
			booking.SlotID,
			booking.ClientName,
			booking.ClientPhone,
			booking.ClientEmail,
			booking.Comment,
			booking.Status,
			utcOrNil(booking.ConfirmExpiresAt),
			createdAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt
	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var booking domain.Booking
	var nulls bookingNulls
	err = executor.QueryRowContext(ctx, query, args...).Scan(bookingDest(&booking, &nulls)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	nulls.apply(&booking)
	return &booking, nil
}

// GetDetails получает бронирование вместе с данными слота, услуги, мастера и салона
func (r *Repository) GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsQuery().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetails - build select query: %w", ErrBuildQuery, err)
	}

	details, err := scanDetails(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetails - scan booking: %w", ErrScanRow, err)
	}
	return details, nil
}

// ListDetailsByPhone возвращает бронирования клиента по номеру телефона, новые первыми
func (r *Repository) ListDetailsByPhone(ctx context.Context, phone string, limit uint64) ([]*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsQuery().
		Where(squirrel.Eq{"b.client_phone": phone}).
		OrderBy("sc.slot_date DESC", "sc.start_time DESC", "b.id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetailsByPhone - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetailsByPhone - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BookingDetails, 0)
	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDetailsByPhone - scan booking: %w", ErrScanRow, err)
		}
		result = append(result, details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDetailsByPhone - rows iteration: %w", ErrScanRow, err)
	}
	return result, nil
}

// ListDetails возвращает бронирования всех салонов, новые первыми
func (r *Repository) ListDetails(ctx context.Context, filter domain.BookingListFilter) ([]*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := detailsQuery().OrderBy("b.created_at DESC", "b.id DESC")
	if filter.SalonID != nil {
		builder = builder.Where(squirrel.Eq{"s.id": *filter.SalonID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"b.status": string(*filter.Status)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetails - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetails - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BookingDetails, 0)
	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDetails - scan booking: %w", ErrScanRow, err)
		}
		result = append(result, details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDetails - rows iteration: %w", ErrScanRow, err)
	}
	return result, nil
}

// StatsByMaster считает бронирования мастеров салона по статусам.
// Мастера без бронирований возвращаются с нулями.
func (r *Repository) StatsByMaster(ctx context.Context, salonID int64) ([]*domain.MasterBookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"m.id",
		"m.name",
		"COUNT(b.id)",
		statusCount(domain.StatusConfirmed),
		statusCount(domain.StatusVisited),
		statusCount(domain.StatusNoShow),
	).
		From("masters m").
		LeftJoin("schedule sc ON sc.master_id = m.id").
		LeftJoin("bookings b ON b.slot_id = sc.id").
		Where(squirrel.Eq{"m.salon_id": salonID}).
		GroupBy("m.id", "m.name").
		OrderBy("m.name", "m.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: StatsByMaster - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: StatsByMaster - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.MasterBookingStats, 0)
	for rows.Next() {
		var st domain.MasterBookingStats
		if err := rows.Scan(&st.MasterID, &st.MasterName, &st.Total, &st.Confirmed, &st.Visited, &st.NoShow); err != nil {
			return nil, fmt.Errorf("%w: StatsByMaster - scan row: %w", ErrScanRow, err)
		}
		result = append(result, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: StatsByMaster - rows iteration: %w", ErrScanRow, err)
	}
	return result, nil
}

// statusCount выражение для подсчета бронирований в статусе; статус берется из констант домена
func statusCount(status domain.BookingStatus) string {
	return fmt.Sprintf("COALESCE(SUM(CASE WHEN b.status = '%s' THEN 1 ELSE 0 END), 0)", status)
}

// UpdateStatusFrom меняет статус только если текущий статус равен from.
// Возвращает false, если бронирование отсутствует или уже в другом статусе.
func (r *Repository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusFrom - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusFrom - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusFrom - get rows affected: %w", ErrExecQuery, err)
	}
	return rowsAffected == 1, nil
}

// Delete удаляет бронирование
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
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
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// DeleteExpiredPending удаляет бронирования в статусе pending с истекшим сроком подтверждения
// и возвращает ID их слотов
func (r *Repository) DeleteExpiredPending(ctx context.Context, now time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.NotEq{"confirm_expires_at": nil}).
		Where(squirrel.Lt{"confirm_expires_at": now.UTC()}).
		Suffix("RETURNING slot_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteExpiredPending - build delete query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteExpiredPending - execute delete: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var slotIDs []int64
	for rows.Next() {
		var slotID int64
		if err := rows.Scan(&slotID); err != nil {
			return nil, fmt.Errorf("%w: DeleteExpiredPending - scan slot id: %w", ErrScanRow, err)
		}
		slotIDs = append(slotIDs, slotID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: DeleteExpiredPending - rows iteration: %w", ErrScanRow, err)
	}
	return slotIDs, nil
}

func detailsQuery() squirrel.SelectBuilder {
	return psqlbuilder.Select(detailsColumns...).
		From("bookings b").
		Join("schedule sc ON sc.id = b.slot_id").
		Join("services sv ON sv.id = sc.service_id").
		Join("masters m ON m.id = sc.master_id").
		Join("salons s ON s.id = m.salon_id")
}

// bookingNulls промежуточные значения для nullable колонок
type bookingNulls struct {
	email     sql.NullString
	comment   sql.NullString
	expiresAt sql.NullTime
	createdAt sql.NullTime
}

func bookingDest(b *domain.Booking, n *bookingNulls) []interface{} {
	return []interface{}{
		&b.ID,
		&b.SlotID,
		&b.ClientName,
		&b.ClientPhone,
		&n.email,
		&n.comment,
		&b.Status,
		&n.expiresAt,
		&n.createdAt,
	}
}

func (n *bookingNulls) apply(b *domain.Booking) {
	if n.email.Valid {
		b.ClientEmail = &n.email.String
	}
	if n.comment.Valid {
		b.Comment = &n.comment.String
	}
	if n.expiresAt.Valid {
		b.ConfirmExpiresAt = &n.expiresAt.Time
	}
	b.CreatedAt = n.createdAt.Time
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetails(row rowScanner) (*domain.BookingDetails, error) {
	var d domain.BookingDetails
	var nulls bookingNulls
	var masterUserID sql.NullInt64

	dest := bookingDest(&d.Booking, &nulls)
	dest = append(dest,
		&d.Date,
		&d.StartTime,
		&d.Price,
		&d.ServiceID,
		&d.ServiceName,
		&d.MasterID,
		&d.MasterName,
		&masterUserID,
		&d.SalonID,
		&d.SalonName,
		&d.Ownership.OwnerID,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	nulls.apply(&d.Booking)
	d.Ownership.SalonID = d.SalonID
	d.Ownership.MasterID = d.MasterID
	if masterUserID.Valid {
		d.Ownership.MasterUserID = &masterUserID.Int64
	}
	return &d, nil
}

// utcOrNil приводит момент к UTC: сравнение сроков в SQLite идет по строковому представлению
func utcOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
