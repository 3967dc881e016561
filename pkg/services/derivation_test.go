package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
)

func dateOf(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return &d
}

func TestDeriveServiceDates(t *testing.T) {
	parent := &models.Registration{
		TotalCapex: decimal.NewFromInt(1000000),
		SignedAt:   dateOf(t, "2020-03-15"),
	}
	start, end := 2, 5
	svc := &models.Service{StartOffsetYears: &start, EndOffsetYears: &end}

	DeriveService(svc, parent)

	require.NotNil(t, svc.StartDate)
	assert.Equal(t, "2022-03-15", svc.StartDate.Format("2006-01-02"))
	require.NotNil(t, svc.EndDate)
	assert.Equal(t, "2025-03-15", svc.EndDate.Format("2006-01-02"))
}

func TestDeriveServiceLeapDay(t *testing.T) {
	parent := &models.Registration{
		TotalCapex: decimal.NewFromInt(1),
		SignedAt:   dateOf(t, "2020-02-29"),
	}
	offset := 1
	svc := &models.Service{StartOffsetYears: &offset}

	DeriveService(svc, parent)

	require.NotNil(t, svc.StartDate)
	assert.Equal(t, "2021-02-28", svc.StartDate.Format("2006-01-02"))
}

func TestDeriveServiceBudget(t *testing.T) {
	parent := &models.Registration{TotalCapex: decimal.NewFromInt(1000000)}
	share := 0.125
	carried := decimal.NewFromInt(999)
	svc := &models.Service{CapexShare: &share, Budget: &carried}

	DeriveService(svc, parent)

	require.NotNil(t, svc.Budget)
	assert.Equal(t, "125000.00", svc.Budget.StringFixed(2), "derived budget wins over the carried value")
}

func TestDeriveServiceNoInputs(t *testing.T) {
	parent := &models.Registration{TotalCapex: decimal.NewFromInt(1000000)}
	svc := &models.Service{}

	DeriveService(svc, parent)
	assert.Nil(t, svc.StartDate)
	assert.Nil(t, svc.EndDate)
	assert.Nil(t, svc.Budget)

	// Offsets without a signature date cannot produce dates.
	offset := 2
	svc = &models.Service{StartOffsetYears: &offset}
	DeriveService(svc, parent)
	assert.Nil(t, svc.StartDate)

	// A nil parent leaves everything untouched.
	DeriveService(svc, nil)
	assert.Nil(t, svc.StartDate)
}
