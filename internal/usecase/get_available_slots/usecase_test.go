package get_available_slots_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/cache/availability"
	catalogRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// memoryCache кэш в памяти с ключом по поколению и отпечатку фильтра
type memoryCache struct {
	data       map[string][]*domain.AvailableSlot
	generation int
	hits       int
	keyErr     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]*domain.AvailableSlot)}
}

func (c *memoryCache) Key(_ context.Context, f domain.AvailabilityFilter) (string, error) {
	if c.keyErr != nil {
		return "", c.keyErr
	}
	return fmt.Sprintf("%d:%s", c.generation, availability.Fingerprint(f)), nil
}

func (c *memoryCache) Get(_ context.Context, key string) ([]*domain.AvailableSlot, bool, error) {
	slots, ok := c.data[key]
	if ok {
		c.hits++
	}
	return slots, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, slots []*domain.AvailableSlot) error {
	c.data[key] = slots
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.generation++
	return nil
}

// racingSlotRepo после чтения выполняет конкурирующую запись (бронь слота со сбросом кэша)
type racingSlotRepo struct {
	get_available_slots.SlotRepository
	afterRead func()
}

func (r *racingSlotRepo) ListAvailable(ctx context.Context, f domain.AvailabilityFilter) ([]*domain.AvailableSlot, error) {
	slots, err := r.SlotRepository.ListAvailable(ctx, f)
	if r.afterRead != nil {
		r.afterRead()
		r.afterRead = nil
	}
	return slots, err
}

type env struct {
	fixture *storagetest.Fixture
	cache   *memoryCache
	uc      *get_available_slots.UseCase

	salon   int64
	anna    int64
	olga    int64
	haircut int64
	nails   int64
}

// now 2025-10-15 12:00 в зоне салонов
var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) *env {
	t.Helper()
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)

	e := &env{fixture: f, cache: newMemoryCache()}
	e.salon = f.Salon(10, "Альфа")
	e.anna = f.Master(e.salon, nil, "Анна")
	e.olga = f.Master(e.salon, nil, "Ольга")
	e.haircut = f.Service(e.salon, "Стрижка", 60)
	e.nails = f.Service(e.salon, "Маникюр", 90)

	e.uc = get_available_slots.NewUseCase(
		slotRepo.NewRepository(db),
		catalogRepo.NewRepository(db),
		e.cache,
		fixedClock{now: now},
		logger.NewNop(),
	)
	return e
}

func ids(slots []*domain.AvailableSlot) []int64 {
	out := make([]int64, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.ID)
	}
	return out
}

func TestUseCase_Execute_MasterWithoutDateSkipsPast(t *testing.T) {
	e := setup(t)
	past := e.fixture.Slot(e.anna, e.haircut, "2025-10-15", "09:00", 1000)
	later := e.fixture.Slot(e.anna, e.haircut, "2025-10-15", "15:00", 1000)
	tomorrow := e.fixture.Slot(e.anna, e.nails, "2025-10-16", "10:00", 2000)
	_ = past

	resp, err := e.uc.Execute(context.Background(), &get_available_slots.Request{MasterID: ptr.Ptr(e.anna)})
	require.NoError(t, err)
	assert.Equal(t, []int64{later, tomorrow}, ids(resp.Slots))
}

func TestUseCase_Execute_ExplicitDateKeepsPastSlots(t *testing.T) {
	e := setup(t)
	past := e.fixture.Slot(e.anna, e.haircut, "2025-10-15", "09:00", 1000)

	resp, err := e.uc.Execute(context.Background(), &get_available_slots.Request{
		MasterID: ptr.Ptr(e.anna),
		Date:     ptr.Ptr("2025-10-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{past}, ids(resp.Slots))
}

func TestUseCase_Execute_SalonFilters(t *testing.T) {
	e := setup(t)
	annaCut := e.fixture.Slot(e.anna, e.haircut, "2025-10-20", "10:00", 1000)
	olgaCut := e.fixture.Slot(e.olga, e.haircut, "2025-10-20", "11:00", 1000)
	olgaNails := e.fixture.Slot(e.olga, e.nails, "2025-10-20", "12:00", 2000)
	taken := e.fixture.Slot(e.anna, e.haircut, "2025-10-20", "13:00", 1000)
	blocked := e.fixture.Slot(e.anna, e.haircut, "2025-10-20", "14:00", 1000)
	e.fixture.Slot(e.anna, e.haircut, "2025-10-21", "10:00", 1000)
	e.fixture.SetFlags(taken, true, false)
	e.fixture.SetFlags(blocked, false, true)

	resp, err := e.uc.Execute(context.Background(), &get_available_slots.Request{
		SalonID: ptr.Ptr(e.salon),
		Date:    ptr.Ptr("2025-10-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{annaCut, olgaCut, olgaNails}, ids(resp.Slots))

	resp, err = e.uc.Execute(context.Background(), &get_available_slots.Request{
		SalonID:   ptr.Ptr(e.salon),
		ServiceID: ptr.Ptr(e.haircut),
		Date:      ptr.Ptr("2025-10-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{annaCut, olgaCut}, ids(resp.Slots))
	assert.Equal(t, "Стрижка", resp.Slots[0].ServiceName)
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
}

func TestUseCase_Execute_UsesCache(t *testing.T) {
	e := setup(t)
	first := e.fixture.Slot(e.anna, e.haircut, "2025-10-20", "10:00", 1000)
	req := &get_available_slots.Request{SalonID: ptr.Ptr(e.salon), Date: ptr.Ptr("2025-10-20")}

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int64{first}, ids(resp.Slots))

	// новый слот не виден, пока кэш не сброшен
	e.fixture.Slot(e.anna, e.haircut, "2025-10-20", "12:00", 1000)
	resp, err = e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int64{first}, ids(resp.Slots))
	assert.Equal(t, 1, e.cache.hits)
}

func TestUseCase_Execute_CacheFailureFallsBackToStorage(t *testing.T) {
	e := setup(t)
	slot := e.fixture.Slot(e.anna, e.haircut, "2025-10-20", "10:00", 1000)
	e.cache.keyErr = errors.New("redis down")

	resp, err := e.uc.Execute(context.Background(), &get_available_slots.Request{
		MasterID: ptr.Ptr(e.anna),
		Date:     ptr.Ptr("2025-10-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{slot}, ids(resp.Slots))
	assert.Empty(t, e.cache.data)
}

func TestUseCase_Execute_StaleSnapshotNotCachedAfterInvalidate(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	salon := f.Salon(10, "Альфа")
	anna := f.Master(salon, nil, "Анна")
	haircut := f.Service(salon, "Стрижка", 60)
	slot := f.Slot(anna, haircut, "2025-10-20", "10:00", 1000)

	cache := newMemoryCache()
	repo := &racingSlotRepo{SlotRepository: slotRepo.NewRepository(db)}
	// бронь фиксируется между чтением и сохранением в кэш
	repo.afterRead = func() {
		f.SetFlags(slot, true, false)
		require.NoError(t, cache.Invalidate(context.Background()))
	}
	uc := get_available_slots.NewUseCase(repo, catalogRepo.NewRepository(db), cache, fixedClock{now: now}, logger.NewNop())
	req := &get_available_slots.Request{MasterID: ptr.Ptr(anna), Date: ptr.Ptr("2025-10-20")}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int64{slot}, ids(resp.Slots))

	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 0, cache.hits)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name    string
		req     *get_available_slots.Request
		wantErr error
	}{
		{"no scope", &get_available_slots.Request{ServiceID: ptr.Ptr(e.haircut)}, get_available_slots.ErrMissingScope},
		{"bad date", &get_available_slots.Request{SalonID: ptr.Ptr(e.salon), Date: ptr.Ptr("20.10.2025")}, get_available_slots.ErrInvalidInput},
		{"date with trailing junk", &get_available_slots.Request{SalonID: ptr.Ptr(e.salon), Date: ptr.Ptr("2025-10-20junk")}, get_available_slots.ErrInvalidInput},
		{"bad master id", &get_available_slots.Request{MasterID: ptr.Ptr(int64(-1))}, get_available_slots.ErrInvalidInput},
		{"unknown master", &get_available_slots.Request{MasterID: ptr.Ptr(int64(999))}, get_available_slots.ErrMasterNotFound},
		{"unknown salon", &get_available_slots.Request{SalonID: ptr.Ptr(int64(999))}, get_available_slots.ErrSalonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.uc.Execute(context.Background(), tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_EmptyResultIsNotNil(t *testing.T) {
	e := setup(t)

	resp, err := e.uc.Execute(context.Background(), &get_available_slots.Request{SalonID: ptr.Ptr(e.salon)})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}
