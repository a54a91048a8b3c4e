package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

func TestRepository_GetMaster(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	salon := f.Salon(7, "Бьюти")
	linked := f.Master(salon, ptr.Ptr(int64(70)), "Ольга")
	free := f.Master(salon, nil, "Ирина")
	repo := catalog.NewRepository(db)
	ctx := context.Background()

	master, err := repo.GetMaster(ctx, linked)
	require.NoError(t, err)
	assert.Equal(t, salon, master.SalonID)
	assert.Equal(t, "Ольга", master.Name)
	assert.Equal(t, int64(7), master.SalonOwnerID)
	assert.Equal(t, "Бьюти", master.SalonName)
	require.NotNil(t, master.UserID)
	assert.Equal(t, int64(70), *master.UserID)

	master, err = repo.GetMaster(ctx, free)
	require.NoError(t, err)
	assert.Nil(t, master.UserID)

	_, err = repo.GetMaster(ctx, free+100)
	assert.ErrorIs(t, err, catalog.ErrMasterNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_GetService(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	salon := f.Salon(7, "Бьюти")
	id := f.Service(salon, "Маникюр", 90)
	repo := catalog.NewRepository(db)

	service, err := repo.GetService(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, salon, service.SalonID)
	assert.Equal(t, "Маникюр", service.Name)
	assert.Equal(t, 90, service.DurationMinutes)
	assert.True(t, service.HasDuration())

	_, err = repo.GetService(context.Background(), id+1)
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}

func TestRepository_GetSalon(t *testing.T) {
	db := storagetest.NewDB(t)
	f := storagetest.NewFixture(t, db)
	id := f.Salon(7, "Бьюти")
	_, err := db.ExecContext(context.Background(),
		`UPDATE salons SET categories = $1 WHERE id = $2`, "hair, nails,, ", id)
	require.NoError(t, err)
	repo := catalog.NewRepository(db)

	salon, err := repo.GetSalon(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), salon.OwnerID)
	assert.Equal(t, "Бьюти", salon.Name)
	assert.Equal(t, []string{"hair", "nails"}, salon.Categories)
	assert.False(t, salon.CreatedAt.IsZero())

	_, err = repo.GetSalon(context.Background(), id+1)
	assert.ErrorIs(t, err, catalog.ErrSalonNotFound)
}
