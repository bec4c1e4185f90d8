package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	appointmentRepo "shinely/database/repository/appointment"
	providerRepo "shinely/database/repository/provider"
	"shinely/models"

	"go.uber.org/zap"
)

const (
	testMonday  = "2025-03-03"
	testTuesday = "2025-03-04"
	testSunday  = "2025-03-02"
)

func testSchedule() models.ProviderSchedule {
	var hours []models.DayHours
	for d := time.Monday; d <= time.Saturday; d++ {
		hours = append(hours, models.DayHours{Weekday: d, Open: 9 * 60, Close: 17 * 60})
	}
	return models.ProviderSchedule{
		WorkingHours:        hours,
		Lunch:               &models.Window{Start: 12 * 60, End: 13 * 60},
		TravelBufferMinutes: 15,
		Timezone:            "UTC",
	}
}

func testProvider() models.Provider {
	return models.Provider{
		ID:       "prov-1",
		Name:     "Shine Mobile",
		Schedule: testSchedule(),
		Currency: "usd",
		Catalog: []models.ServiceCatalogItem{
			{
				ID:                 "full-detail",
				Name:               "Full Detail",
				BasePrice:          50,
				BaseDuration:       60,
				LuxurySurchargePct: 15,
				LuxuryExtraTimePct: 25,
			},
			{
				ID:                  "quick-wash",
				Name:                "Quick Wash",
				BasePrice:           20,
				BaseDuration:        30,
				PriceMultipliers:    map[models.BodyType]float64{models.BodyTruck: 2},
				DurationMultipliers: map[models.BodyType]float64{models.BodyTruck: 1.5},
			},
		},
	}
}

var (
	siteA = models.JobSite{Address: "12 Elm Street", Geo: models.NewGeoPoint(40.7128, -74.0060)}
	siteB = models.JobSite{Address: "400 Oak Avenue", Geo: models.NewGeoPoint(40.7580, -73.9855)}
)

func appointmentAt(id, date string, start, duration int, site models.JobSite) models.Appointment {
	return models.Appointment{
		ID:            id,
		ProviderID:    "prov-1",
		CustomerID:    "cust-1",
		ServiceID:     "full-detail",
		BodyType:      models.BodyCar,
		ScheduledDate: date,
		ScheduledTime: start,
		Duration:      duration,
		Site:          site,
		Status:        models.StatusScheduled,
	}
}

type recordingReminders struct {
	mu    sync.Mutex
	appts []models.Appointment
}

func (r *recordingReminders) ScheduleReminder(_ context.Context, appt models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts = append(r.appts, appt)
	return nil
}

func (r *recordingReminders) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appts)
}

type testEnv struct {
	svc       *DefaultSchedulingService
	calc      *DefaultAvailabilityCalculator
	appts     *appointmentRepo.MemoryAppointmentRepo
	reminders *recordingReminders
}

func newTestEnv(t *testing.T, seed ...models.Appointment) *testEnv {
	t.Helper()
	providers := providerRepo.NewMemoryProviderRepo(testProvider())
	appts := appointmentRepo.NewMemoryAppointmentRepo(seed...)
	calc := &DefaultAvailabilityCalculator{
		Providers:    providers,
		Appointments: appts,
		Granularity:  30,
		Logger:       zap.NewNop(),
	}
	reminders := &recordingReminders{}
	svc := &DefaultSchedulingService{
		Providers:    providers,
		Appointments: appts,
		Availability: calc,
		Locker:       NewLocalLocker(),
		Reminders:    reminders,
		Policy:       ReschedulePolicy{MaxReschedules: 3},
		Logger:       zap.NewNop(),
		Now:          func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) },
	}
	return &testEnv{svc: svc, calc: calc, appts: appts, reminders: reminders}
}
