package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

type memoryRepo struct {
	events    []*domain.AuditEvent
	appendErr error
	before    time.Time
}

func (r *memoryRepo) Append(_ context.Context, e *domain.AuditEvent) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	e.ID = int64(len(r.events) + 1)
	r.events = append(r.events, e)
	return nil
}

func (r *memoryRepo) List(_ context.Context, from, to time.Time) ([]*domain.AuditEvent, error) {
	out := make([]*domain.AuditEvent, 0)
	for _, e := range r.events {
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryRepo) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.before = before
	return 3, nil
}

var now = time.Date(2025, 10, 15, 12, 30, 45, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := NewService(repo, logger.NewNop())
	s.now = func() time.Time { return now }
	return s
}

var (
	platformAdmin = domain.Principal{ID: 1, Role: domain.RoleSuperAdmin}
	salonOwner    = domain.Principal{ID: 10, Role: domain.RoleSalonAdmin}
)

func TestService_Record(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestService(repo)

	s.Record(context.Background(), salonOwner, domain.AuditSlotBlocked, "slot", 42, "master=3")

	require.Len(t, repo.events, 1)
	e := repo.events[0]
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, int64(10), e.ActorID)
	assert.Equal(t, domain.RoleSalonAdmin, e.ActorRole)
	assert.Equal(t, domain.AuditSlotBlocked, e.Action)
	assert.Equal(t, int64(42), e.EntityID)
	assert.True(t, e.CreatedAt.Equal(now))
}

func TestService_RecordSwallowsStorageErrors(t *testing.T) {
	repo := &memoryRepo{appendErr: errors.New("disk full")}
	s := newTestService(repo)

	assert.NotPanics(t, func() {
		s.Record(context.Background(), salonOwner, domain.AuditSlotDeleted, "slot", 1, "")
	})
	assert.Empty(t, repo.events)
}

func TestService_Cleanup(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestService(repo)

	deleted, err := s.Cleanup(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.True(t, repo.before.Equal(now.Add(-30*24*time.Hour)))
}

func TestService_Events(t *testing.T) {
	s := newTestService(&memoryRepo{})
	from := now.Add(-time.Hour)

	_, err := s.Events(context.Background(), salonOwner, from, now)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = s.Events(context.Background(), platformAdmin, now, from)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	events, err := s.Events(context.Background(), platformAdmin, from, now)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestService_Export(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestService(repo)
	ctx := context.Background()

	s.Record(ctx, salonOwner, domain.AuditSlotsCreated, "master", 3, "service=7 slots=2")
	s.Record(ctx, salonOwner, domain.AuditBookingCanceled, "booking", 9, "slot=5")

	var buf bytes.Buffer
	require.NoError(t, s.Export(ctx, platformAdmin, now.Add(-time.Hour), now.Add(time.Hour), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Действие", rows[0][4])
	assert.Equal(t, "2025-10-15 12:30:45", rows[1][0])
	assert.Equal(t, "10", rows[1][2])
	assert.Equal(t, "salon_admin", rows[1][3])
	assert.Equal(t, "slots_created", rows[1][4])
	assert.Equal(t, "master", rows[1][5])
	assert.Equal(t, "3", rows[1][6])
	assert.Equal(t, "service=7 slots=2", rows[1][7])
	assert.Equal(t, "booking_canceled", rows[2][4])
}

func TestService_ExportForbidden(t *testing.T) {
	s := newTestService(&memoryRepo{})

	var buf bytes.Buffer
	err := s.Export(context.Background(), salonOwner, now.Add(-time.Hour), now, &buf)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, buf.Len())
}
