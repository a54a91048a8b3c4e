// Package storagetest поднимает in-memory SQLite со схемой сервиса для тестов репозиториев и usecase.
package storagetest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schema"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
)

// NewDB открывает изолированную in-memory БД с примененной схемой.
// Пул ограничен одним соединением, поэтому транзакции выполняются строго последовательно.
func NewDB(t testing.TB) *dbmetrics.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	raw, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)

	raw.SetMaxOpenConns(1)
	raw.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	require.NoError(t, schema.Apply(context.Background(), raw, "sqlite3"))
	return dbmetrics.Wrap(raw, nil)
}

// Fixture вставляет тестовые данные напрямую через SQL
type Fixture struct {
	t  testing.TB
	db *dbmetrics.DB
}

// NewFixture создает помощник для заполнения БД
func NewFixture(t testing.TB, db *dbmetrics.DB) *Fixture {
	return &Fixture{t: t, db: db}
}

func (f *Fixture) insert(query string, args ...interface{}) int64 {
	f.t.Helper()
	var id int64
	require.NoError(f.t, f.db.QueryRowContext(context.Background(), query+" RETURNING id", args...).Scan(&id))
	return id
}

// Salon создает салон
func (f *Fixture) Salon(ownerID int64, name string) int64 {
	return f.insert(`INSERT INTO salons (owner_id, name, address) VALUES ($1, $2, $3)`, ownerID, name, "ул. Тестовая, 1")
}

// Master создает мастера; userID может быть nil
func (f *Fixture) Master(salonID int64, userID *int64, name string) int64 {
	return f.insert(`INSERT INTO masters (salon_id, user_id, name) VALUES ($1, $2, $3)`, salonID, userID, name)
}

// Service создает услугу с длительностью в минутах
func (f *Fixture) Service(salonID int64, name string, duration int) int64 {
	return f.insert(`INSERT INTO services (salon_id, name, duration_minutes) VALUES ($1, $2, $3)`, salonID, name, duration)
}

// Slot создает свободный слот
func (f *Fixture) Slot(masterID, serviceID int64, date, clock string, price float64) int64 {
	return f.insert(`INSERT INTO schedule (master_id, service_id, slot_date, start_time, price) VALUES ($1, $2, $3, $4, $5)`,
		masterID, serviceID, date, clock, price)
}

// Booking создает бронирование слота с указанным статусом (флаг слота не меняется)
func (f *Fixture) Booking(slotID int64, phone string, status string, expiresAt *time.Time) int64 {
	var expires interface{}
	if expiresAt != nil {
		expires = expiresAt.UTC()
	}
	return f.insert(`INSERT INTO bookings (slot_id, client_name, client_phone, status, confirm_expires_at) VALUES ($1, $2, $3, $4, $5)`,
		slotID, "Клиент", phone, status, expires)
}

// SetFlags выставляет флаги слота
func (f *Fixture) SetFlags(slotID int64, taken, blocked bool) {
	f.t.Helper()
	_, err := f.db.ExecContext(context.Background(), `UPDATE schedule SET is_taken = $1, is_blocked = $2 WHERE id = $3`, taken, blocked, slotID)
	require.NoError(f.t, err)
}

// Flags возвращает флаги слота
func (f *Fixture) Flags(slotID int64) (taken, blocked bool) {
	f.t.Helper()
	require.NoError(f.t, f.db.QueryRowContext(context.Background(),
		`SELECT is_taken, is_blocked FROM schedule WHERE id = $1`, slotID).Scan(&taken, &blocked))
	return taken, blocked
}

// CountBookings возвращает количество бронирований слота
func (f *Fixture) CountBookings(slotID int64) int {
	f.t.Helper()
	var n int
	require.NoError(f.t, f.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, slotID).Scan(&n))
	return n
}

// CountSlots возвращает количество слотов мастера
func (f *Fixture) CountSlots(masterID int64) int {
	f.t.Helper()
	var n int
	require.NoError(f.t, f.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM schedule WHERE master_id = $1`, masterID).Scan(&n))
	return n
}
