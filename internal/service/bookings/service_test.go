package bookings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

const (
	ownerID      int64 = 10
	masterUserID int64 = 44
	phone              = "+998901112233"
)

var now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type countingCache struct{ invalidated int }

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidated++
	return nil
}

type recordedAction struct {
	actor  domain.Principal
	action domain.AuditAction
	id     int64
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []recordedAction
}

func (a *recordingAudit) Record(_ context.Context, actor domain.Principal, action domain.AuditAction, _ string, id int64, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, recordedAction{actor: actor, action: action, id: id})
}

type env struct {
	fixture *storagetest.Fixture
	svc     *bookings.Service
	cache   *countingCache
	audit   *recordingAudit

	salon   int64
	master  int64
	service int64
}

func setup(t *testing.T) *env {
	t.Helper()
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)

	salon := f.Salon(ownerID, "Альфа")
	e := &env{
		fixture: f,
		cache:   &countingCache{},
		audit:   &recordingAudit{},
		salon:   salon,
		master:  f.Master(salon, ptr.Ptr(masterUserID), "Анна"),
		service: f.Service(salon, "Стрижка", 60),
	}
	e.svc = bookings.NewService(
		bookingRepo.NewRepository(db),
		slotRepo.NewRepository(db),
		catalogRepo.NewRepository(db),
		txmanager.NewTransactionManager(db),
		e.cache,
		e.audit,
		fixedClock{},
		logger.NewNop(),
	)
	return e
}

// takenSlot создает занятый слот с бронированием в статусе status
func (e *env) takenSlot(clock string, status domain.BookingStatus, expires *time.Time) (slotID, bookingID int64) {
	slotID = e.fixture.Slot(e.master, e.service, "2025-10-15", clock, 1500)
	e.fixture.SetFlags(slotID, true, false)
	return slotID, e.fixture.Booking(slotID, phone, string(status), expires)
}

func owner() domain.Principal {
	return domain.Principal{ID: ownerID, Role: domain.RoleSalonAdmin}
}

func TestService_ChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Principal
		from    domain.BookingStatus
		to      domain.BookingStatus
		wantErr error
	}{
		{"owner marks visited", owner(), domain.StatusConfirmed, domain.StatusVisited, nil},
		{"master account marks no-show", domain.Principal{ID: masterUserID, Role: domain.RoleMaster}, domain.StatusConfirmed, domain.StatusNoShow, nil},
		{"platform admin", domain.Principal{ID: 1, Role: domain.RoleSuperAdmin}, domain.StatusConfirmed, domain.StatusVisited, nil},
		{"terminal status is final", owner(), domain.StatusVisited, domain.StatusNoShow, bookings.ErrInvalidTransition},
		{"pending cannot be marked", owner(), domain.StatusPending, domain.StatusVisited, bookings.ErrInvalidTransition},
		{"back to confirmed", owner(), domain.StatusConfirmed, domain.StatusConfirmed, bookings.ErrInvalidTransition},
		{"unknown status", owner(), domain.StatusConfirmed, domain.BookingStatus("lost"), bookings.ErrInvalidStatus},
		{"stranger", domain.Principal{ID: 99, Role: domain.RoleSalonAdmin}, domain.StatusConfirmed, domain.StatusVisited, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			_, id := e.takenSlot("10:00", tt.from, nil)

			details, err := e.svc.ChangeStatus(context.Background(), tt.actor, id, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, details)
				assert.Empty(t, e.audit.actions)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, details.Status)
			require.Len(t, e.audit.actions, 1)
			assert.Equal(t, domain.AuditBookingStatus, e.audit.actions[0].action)
		})
	}
}

func TestService_ChangeStatus_NotFound(t *testing.T) {
	e := setup(t)

	_, err := e.svc.ChangeStatus(context.Background(), owner(), 404, domain.StatusVisited)
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Cancel_FreesSlot(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusConfirmed, domain.StatusVisited, domain.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			e := setup(t)
			slotID, id := e.takenSlot("10:00", status, nil)

			details, err := e.svc.Cancel(context.Background(), owner(), id)
			require.NoError(t, err)
			assert.Equal(t, slotID, details.SlotID)

			taken, _ := e.fixture.Flags(slotID)
			assert.False(t, taken)
			assert.Equal(t, 0, e.fixture.CountBookings(slotID))
			assert.Equal(t, 1, e.cache.invalidated)
			require.Len(t, e.audit.actions, 1)
			assert.Equal(t, domain.AuditBookingCanceled, e.audit.actions[0].action)
		})
	}
}

func TestService_Cancel_Rejected(t *testing.T) {
	e := setup(t)
	slotID, id := e.takenSlot("10:00", domain.StatusConfirmed, nil)

	// мастер не может отменять бронирования
	_, err := e.svc.Cancel(context.Background(), domain.Principal{ID: masterUserID, Role: domain.RoleMaster}, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	taken, _ := e.fixture.Flags(slotID)
	assert.True(t, taken)
	assert.Equal(t, 1, e.fixture.CountBookings(slotID))

	_, err = e.svc.Cancel(context.Background(), owner(), id+100)
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
	assert.Zero(t, e.cache.invalidated)
}

func TestService_ClientBookings(t *testing.T) {
	e := setup(t)
	e.takenSlot("10:00", domain.StatusConfirmed, nil)
	e.takenSlot("12:00", domain.StatusVisited, nil)

	list, err := e.svc.ClientBookings(context.Background(), "  "+phone+" ")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "12:00", list[0].StartTime.String())

	_, err = e.svc.ClientBookings(context.Background(), " ")
	assert.ErrorIs(t, err, bookings.ErrInvalidInput)
}

func TestService_SweepExpiredPending(t *testing.T) {
	e := setup(t)
	expiredSlot, _ := e.takenSlot("10:00", domain.StatusPending, ptr.Ptr(now.Add(-time.Minute)))
	freshSlot, _ := e.takenSlot("11:00", domain.StatusPending, ptr.Ptr(now.Add(time.Hour)))
	confirmedSlot, _ := e.takenSlot("12:00", domain.StatusConfirmed, nil)

	swept, err := e.svc.SweepExpiredPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	taken, _ := e.fixture.Flags(expiredSlot)
	assert.False(t, taken)
	taken, _ = e.fixture.Flags(freshSlot)
	assert.True(t, taken)
	taken, _ = e.fixture.Flags(confirmedSlot)
	assert.True(t, taken)

	require.Len(t, e.audit.actions, 1)
	assert.Equal(t, domain.AuditPendingSwept, e.audit.actions[0].action)
	assert.Equal(t, int64(domain.SystemPrincipalID), e.audit.actions[0].actor.ID)

	swept, err = e.svc.SweepExpiredPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, swept)
	assert.Len(t, e.audit.actions, 1)
}

func TestService_AllBookings(t *testing.T) {
	e := setup(t)
	_, first := e.takenSlot("10:00", domain.StatusConfirmed, nil)
	_, second := e.takenSlot("11:00", domain.StatusVisited, nil)
	admin := domain.Principal{ID: 1, Role: domain.RoleSuperAdmin}

	list, err := e.svc.AllBookings(context.Background(), admin, domain.BookingListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
	assert.Equal(t, "Альфа", list[0].SalonName)

	list, err = e.svc.AllBookings(context.Background(), admin, domain.BookingListFilter{Status: ptr.Ptr(domain.StatusConfirmed)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)

	_, err = e.svc.AllBookings(context.Background(), admin, domain.BookingListFilter{Status: ptr.Ptr(domain.BookingStatus("lost"))})
	assert.ErrorIs(t, err, bookings.ErrInvalidStatus)

	// общий список доступен только администратору платформы
	_, err = e.svc.AllBookings(context.Background(), owner(), domain.BookingListFilter{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_SalonStats(t *testing.T) {
	e := setup(t)
	e.takenSlot("10:00", domain.StatusConfirmed, nil)
	e.takenSlot("11:00", domain.StatusNoShow, nil)

	stats, err := e.svc.SalonStats(context.Background(), owner(), e.salon)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, e.master, stats[0].MasterID)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 1, stats[0].Confirmed)
	assert.Equal(t, 1, stats[0].NoShow)

	_, err = e.svc.SalonStats(context.Background(), domain.Principal{ID: masterUserID, Role: domain.RoleMaster}, e.salon)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.svc.SalonStats(context.Background(), owner(), 999)
	assert.ErrorIs(t, err, bookings.ErrSalonNotFound)
}
