package slot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type fixtureIDs struct {
	salonA, salonB     int64
	masterA, masterB   int64
	haircut, colouring int64
}

func seed(f *storagetest.Fixture) fixtureIDs {
	var ids fixtureIDs
	ids.salonA = f.Salon(10, "Альфа")
	ids.salonB = f.Salon(20, "Бета")
	ids.masterA = f.Master(ids.salonA, nil, "Анна")
	ids.masterB = f.Master(ids.salonB, nil, "Борис")
	ids.haircut = f.Service(ids.salonA, "Стрижка", 60)
	ids.colouring = f.Service(ids.salonB, "Окрашивание", 90)
	return ids
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Slot{
		MasterID:  ids.masterA,
		ServiceID: ids.haircut,
		Date:      "2025-10-15",
		StartTime: "10:00",
		Price:     1500,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ids.masterA, got.MasterID)
	assert.Equal(t, types.Date("2025-10-15"), got.Date)
	assert.Equal(t, types.TimeString("10:00"), got.StartTime)
	assert.Equal(t, 1500.0, got.Price)
	assert.Equal(t, 60, got.DurationMinutes)
	assert.False(t, got.IsTaken)
	assert.False(t, got.IsBlocked)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, slot.ErrSlotNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_TryTake(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)
	ctx := context.Background()

	free := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "10:00", 1000)
	blocked := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "12:00", 1000)
	f.SetFlags(blocked, false, true)

	ok, err := repo.TryTake(ctx, free)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TryTake(ctx, free)
	require.NoError(t, err)
	assert.False(t, ok, "second take must fail")

	ok, err = repo.TryTake(ctx, blocked)
	require.NoError(t, err)
	assert.False(t, ok, "blocked slot must not be taken")

	taken, isBlocked := f.Flags(blocked)
	assert.False(t, taken)
	assert.True(t, isBlocked)
}

func TestRepository_Delete(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)
	ctx := context.Background()

	free := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "10:00", 1000)
	taken := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "11:00", 1000)
	f.SetFlags(taken, true, false)

	require.NoError(t, repo.Delete(ctx, free))
	_, err := repo.GetByID(ctx, free)
	assert.ErrorIs(t, err, slot.ErrSlotNotFound)

	err = repo.Delete(ctx, taken)
	assert.ErrorIs(t, err, slot.ErrSlotTaken)
	assert.Equal(t, 1, f.CountSlots(ids.masterA))

	err = repo.Delete(ctx, free)
	assert.ErrorIs(t, err, slot.ErrSlotNotFound)
}

func TestRepository_SetBlockedIsIdempotent(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)
	ctx := context.Background()

	id := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "10:00", 1000)

	require.NoError(t, repo.SetBlocked(ctx, id, true))
	require.NoError(t, repo.SetBlocked(ctx, id, true))
	_, blocked := f.Flags(id)
	assert.True(t, blocked)

	require.NoError(t, repo.SetBlocked(ctx, id, false))
	require.NoError(t, repo.SetBlocked(ctx, id, false))
	_, blocked = f.Flags(id)
	assert.False(t, blocked)

	assert.ErrorIs(t, repo.SetBlocked(ctx, id+100, true), slot.ErrSlotNotFound)
}

func TestRepository_GetOwnership(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	salon := f.Salon(10, "Альфа")
	master := f.Master(salon, ptr.Ptr(int64(33)), "Анна")
	service := f.Service(salon, "Стрижка", 60)
	id := f.Slot(master, service, "2025-10-15", "10:00", 1000)

	chain, err := slot.NewRepository(db).GetOwnership(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, salon, chain.SalonID)
	assert.Equal(t, int64(10), chain.OwnerID)
	assert.Equal(t, master, chain.MasterID)
	require.NotNil(t, chain.MasterUserID)
	assert.Equal(t, int64(33), *chain.MasterUserID)
}

func TestRepository_ListByMasterAndDate(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)

	f.Slot(ids.masterA, ids.haircut, "2025-10-15", "12:00", 1000)
	first := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "09:00", 1000)
	blocked := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "15:00", 1000)
	f.SetFlags(blocked, false, true)
	f.Slot(ids.masterA, ids.haircut, "2025-10-16", "09:00", 1000)

	slots, err := repo.ListByMasterAndDate(context.Background(), ids.masterA, "2025-10-15", false)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, first, slots[0].ID)

	slots, err = repo.ListByMasterAndDate(context.Background(), ids.masterA, "2025-10-15", true)
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestRepository_ListAvailable(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)
	ctx := context.Background()

	a1 := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "10:00", 1000)
	a2 := f.Slot(ids.masterA, ids.haircut, "2025-10-16", "10:00", 1000)
	taken := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "12:00", 1000)
	f.SetFlags(taken, true, false)
	blocked := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "14:00", 1000)
	f.SetFlags(blocked, false, true)
	b1 := f.Slot(ids.masterB, ids.colouring, "2025-10-15", "11:00", 3000)

	t.Run("no filters returns every bookable slot in order", func(t *testing.T) {
		slots, err := repo.ListAvailable(ctx, domain.AvailabilityFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{a1, b1, a2}, slotIDs(slots))
	})

	t.Run("by master", func(t *testing.T) {
		slots, err := repo.ListAvailable(ctx, domain.AvailabilityFilter{MasterID: &ids.masterA})
		require.NoError(t, err)
		assert.Equal(t, []int64{a1, a2}, slotIDs(slots))
		assert.Equal(t, "Анна", slots[0].MasterName)
		assert.Equal(t, "Стрижка", slots[0].ServiceName)
		assert.Equal(t, ids.salonA, slots[0].SalonID)
	})

	t.Run("by salon and date", func(t *testing.T) {
		date := types.Date("2025-10-15")
		slots, err := repo.ListAvailable(ctx, domain.AvailabilityFilter{SalonID: &ids.salonB, Date: &date})
		require.NoError(t, err)
		assert.Equal(t, []int64{b1}, slotIDs(slots))
	})

	t.Run("by service", func(t *testing.T) {
		slots, err := repo.ListAvailable(ctx, domain.AvailabilityFilter{ServiceID: &ids.colouring})
		require.NoError(t, err)
		assert.Equal(t, []int64{b1}, slotIDs(slots))
	})

	t.Run("not before drops past slots", func(t *testing.T) {
		now := time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)
		slots, err := repo.ListAvailable(ctx, domain.AvailabilityFilter{NotBefore: &now})
		require.NoError(t, err)
		assert.Equal(t, []int64{b1, a2}, slotIDs(slots))
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		date := types.Date("2030-01-01")
		slots, err := repo.ListAvailable(ctx, domain.AvailabilityFilter{Date: &date})
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)
	})
}

func TestRepository_ListSchedule(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)

	free := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "10:00", 1000)
	booked := f.Slot(ids.masterA, ids.haircut, "2025-10-15", "12:00", 1000)
	f.SetFlags(booked, true, false)
	bookingID := f.Booking(booked, "+998901234567", string(domain.StatusConfirmed), nil)
	f.Slot(ids.masterA, ids.haircut, "2025-10-20", "10:00", 1000)

	entries, err := repo.ListSchedule(context.Background(), ids.masterA, "2025-10-15", "2025-10-16")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, free, entries[0].Slot.ID)
	assert.Nil(t, entries[0].Booking)
	assert.Equal(t, "Стрижка", entries[0].ServiceName)

	assert.Equal(t, booked, entries[1].Slot.ID)
	assert.True(t, entries[1].Slot.IsTaken)
	require.NotNil(t, entries[1].Booking)
	assert.Equal(t, bookingID, entries[1].Booking.ID)
	assert.Equal(t, "+998901234567", entries[1].Booking.ClientPhone)
	assert.Equal(t, domain.StatusConfirmed, entries[1].Booking.Status)
}

func TestRepository_CountFreeByMaster(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	idle := f.Master(ids.salonA, nil, "Вера")
	repo := slot.NewRepository(db)

	f.Slot(ids.masterA, ids.haircut, "2025-10-15", "09:00", 1000) // в прошлом
	f.Slot(ids.masterA, ids.haircut, "2025-10-15", "18:00", 1000)
	f.Slot(ids.masterA, ids.haircut, "2025-10-16", "09:00", 1000)
	taken := f.Slot(ids.masterA, ids.haircut, "2025-10-16", "11:00", 1000)
	f.SetFlags(taken, true, false)

	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	statuses, err := repo.CountFreeByMaster(context.Background(), ids.salonA, now)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, ids.masterA, statuses[0].MasterID)
	assert.Equal(t, 2, statuses[0].FreeSlots)
	assert.Equal(t, idle, statuses[1].MasterID)
	assert.Equal(t, 0, statuses[1].FreeSlots)
}

func TestRepository_ListSalonsWithAvailability(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	ids := seed(f)
	repo := slot.NewRepository(db)
	ctx := context.Background()

	f.Slot(ids.masterA, ids.haircut, "2025-10-15", "09:00", 1000)
	f.Slot(ids.masterA, ids.haircut, "2025-10-15", "17:00", 1000)
	f.Slot(ids.masterB, ids.colouring, "2025-10-15", "08:00", 1000)

	salons, err := repo.ListSalonsWithAvailability(ctx, "2025-10-15", nil)
	require.NoError(t, err)
	require.Len(t, salons, 2)
	assert.Equal(t, "Альфа", salons[0].SalonName)
	assert.Equal(t, 2, salons[0].FreeSlots)

	since := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	salons, err = repo.ListSalonsWithAvailability(ctx, "2025-10-15", &since)
	require.NoError(t, err)
	require.Len(t, salons, 1)
	assert.Equal(t, ids.salonA, salons[0].SalonID)
	assert.Equal(t, 1, salons[0].FreeSlots)
}

func slotIDs(slots []*domain.AvailableSlot) []int64 {
	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestRepository_CreateKeepsDriverError(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	salon := f.Salon(1, "Альфа")
	master := f.Master(salon, nil, "Анна")
	service := f.Service(salon, "Стрижка", 60)
	repo := slot.NewRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, &domain.Slot{
		MasterID:  master,
		ServiceID: service,
		Date:      types.Date("2025-10-15"),
		StartTime: types.TimeString("10:00"),
		Price:     1000,
	})
	assert.ErrorIs(t, err, slot.ErrExecQuery)
	assert.ErrorIs(t, err, context.Canceled)
}
