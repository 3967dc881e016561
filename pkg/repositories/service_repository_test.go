package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/testhelpers"
)

func dredgingService(registrationID int64) *models.Service {
	start := time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)
	startOffset, endOffset := 2, 5
	share := 0.125
	budget := decimal.RequireFromString("125000.00")
	return &models.Service{
		RegistrationID:   registrationID,
		ServiceType:      "Obra",
		Phase:            "1",
		Name:             "Dragagem",
		Description:      "Dragagem de aprofundamento",
		StartOffsetYears: &startOffset,
		StartDate:        &start,
		EndOffsetYears:   &endOffset,
		ScheduleSource:   "contrato",
		CapexShare:       &share,
		Budget:           &budget,
		ShareSource:      "anexo 3",
	}
}

func seedRegistration(t *testing.T, tdb *testhelpers.TestDB) *models.Registration {
	t.Helper()
	reg := santosRegistration()
	require.NoError(t, NewRegistrationRepository().Create(context.Background(), tdb.DB.Pool, reg))
	return reg
}

func TestServiceRepositoryCreateAndGet(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	testhelpers.TruncateAll(t, tdb.DB)
	ctx := context.Background()
	repo := NewServiceRepository()

	reg := seedRegistration(t, tdb)
	svc := dredgingService(reg.ID)
	require.NoError(t, repo.Create(ctx, tdb.DB.Pool, svc))
	assert.NotZero(t, svc.ID)

	key := models.ServiceKey{
		RegistrationKey: reg.Key(),
		ServiceType:     "Obra",
		Phase:           "1",
		Name:            "Dragagem",
		Description:     "Dragagem de aprofundamento",
	}
	got, err := repo.GetByKey(ctx, tdb.DB.Pool, reg.ID, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, svc.ID, got.ID)
	require.NotNil(t, got.CapexShare)
	assert.InDelta(t, 0.125, *got.CapexShare, 1e-9)
	require.NotNil(t, got.Budget)
	assert.Equal(t, "125000.00", got.Budget.StringFixed(2))
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2022-03-15", got.StartDate.Format("2006-01-02"))
	assert.Nil(t, got.EndDate)

	// Same tuple with a different description is a different service.
	other := key
	other.Description = "outra"
	missing, err := repo.GetByKey(ctx, tdb.DB.Pool, reg.ID, other)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestServiceRepositoryUpdate(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	testhelpers.TruncateAll(t, tdb.DB)
	ctx := context.Background()
	repo := NewServiceRepository()

	reg := seedRegistration(t, tdb)
	svc := dredgingService(reg.ID)
	require.NoError(t, repo.Create(ctx, tdb.DB.Pool, svc))

	newBudget := decimal.RequireFromString("200000.00")
	svc.Budget = &newBudget
	newShare := 0.2
	svc.CapexShare = &newShare
	require.NoError(t, repo.Update(ctx, tdb.DB.Pool, svc))

	listed, err := repo.ListByRegistration(ctx, tdb.DB.Pool, reg.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "200000.00", listed[0].Budget.StringFixed(2))
	assert.InDelta(t, 0.2, *listed[0].CapexShare, 1e-9)
}

func TestServiceRepositoryCascadeDelete(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	testhelpers.TruncateAll(t, tdb.DB)
	ctx := context.Background()
	repo := NewServiceRepository()

	reg := seedRegistration(t, tdb)
	require.NoError(t, repo.Create(ctx, tdb.DB.Pool, dredgingService(reg.ID)))

	require.NoError(t, NewRegistrationRepository().DeleteAll(ctx, tdb.DB.Pool))

	all, err := repo.List(ctx, tdb.DB.Pool)
	require.NoError(t, err)
	assert.Empty(t, all, "services are dropped with their registration")
}
