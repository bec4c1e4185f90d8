package provider

import (
	"context"
	"testing"
	"time"

	providerRepo "shinely/database/repository/provider"
	"shinely/models"
	"shinely/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func weekdaySchedule() models.ProviderSchedule {
	s := models.ProviderSchedule{
		Lunch:               &models.Window{Start: 720, End: 780},
		TravelBufferMinutes: 15,
		Timezone:            "America/Chicago",
	}
	for d := time.Monday; d <= time.Friday; d++ {
		s.WorkingHours = append(s.WorkingHours, models.DayHours{Weekday: d, Open: 540, Close: 1020})
	}
	return s
}

func newService(seed ...models.Provider) *DefaultProviderService {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return &DefaultProviderService{
		Repo:   providerRepo.NewMemoryProviderRepo(seed...),
		Logger: zap.NewNop(),
		Now:    func() time.Time { return now },
	}
}

func TestRegisterProvider(t *testing.T) {
	svc := newService()
	p, err := svc.RegisterProvider(context.Background(), models.Provider{
		Name:     "Gloss Squad",
		Currency: "USD",
		Schedule: weekdaySchedule(),
		Catalog:  []models.ServiceCatalogItem{{ID: "wash", Name: "Wash", BasePrice: 20, BaseDuration: 30}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "usd", p.Currency)
	assert.False(t, p.CreatedAt.IsZero())

	stored, err := svc.GetProvider(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gloss Squad", stored.Name)

	_, err = svc.RegisterProvider(context.Background(), models.Provider{Schedule: weekdaySchedule()})
	assert.ErrorIs(t, err, booking.ErrInvalidInput)
}

func TestUpdateScheduleAndCatalog(t *testing.T) {
	svc := newService(models.Provider{ID: "prov-1", Name: "Gloss Squad"})
	ctx := context.Background()

	p, err := svc.UpdateSchedule(ctx, "prov-1", weekdaySchedule())
	require.NoError(t, err)
	assert.Equal(t, 15, p.Schedule.TravelBufferMinutes)
	assert.False(t, p.Schedule.HoursFor(time.Monday).Closed())
	assert.True(t, p.Schedule.HoursFor(time.Sunday).Closed())

	p, err = svc.UpdateCatalog(ctx, "prov-1", []models.ServiceCatalogItem{{ID: "wash", BasePrice: 20, BaseDuration: 30}})
	require.NoError(t, err)
	require.Len(t, p.Catalog, 1)

	_, err = svc.UpdateCatalog(ctx, "prov-1", []models.ServiceCatalogItem{{ID: "wash"}})
	assert.ErrorIs(t, err, booking.ErrInvalidInput)

	_, err = svc.UpdateSchedule(ctx, "missing", weekdaySchedule())
	assert.ErrorIs(t, err, booking.ErrNotFound)
	_, err = svc.GetProvider(ctx, "missing")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestValidateSchedule(t *testing.T) {
	require.NoError(t, ValidateSchedule(weekdaySchedule()))
	require.NoError(t, ValidateSchedule(models.ProviderSchedule{}))

	tests := []struct {
		name   string
		mutate func(*models.ProviderSchedule)
		field  string
	}{
		{"close past midnight", func(s *models.ProviderSchedule) { s.WorkingHours[0].Close = 1500 }, "workingHours"},
		{"open after close", func(s *models.ProviderSchedule) { s.WorkingHours[0].Open = 1100 }, "workingHours"},
		{"duplicate weekday", func(s *models.ProviderSchedule) { s.WorkingHours[1].Weekday = time.Monday }, "workingHours"},
		{"empty lunch", func(s *models.ProviderSchedule) { s.Lunch = &models.Window{Start: 720, End: 720} }, "lunch"},
		{"negative buffer", func(s *models.ProviderSchedule) { s.TravelBufferMinutes = -5 }, "travelBufferMinutes"},
		{"bad timezone", func(s *models.ProviderSchedule) { s.Timezone = "Mars/Olympus" }, "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := weekdaySchedule()
			tt.mutate(&s)
			err := ValidateSchedule(s)
			var se *booking.SchedulingError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, CodeInvalidSchedule, se.Code)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}
