package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appointmentRepo "shinely/database/repository/appointment"
	providerRepo "shinely/database/repository/provider"
	"shinely/models"
	"shinely/services/booking"
	"shinely/services/payment"
	"shinely/services/provider"
	"shinely/services/route"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

const monday = "2025-03-03"

func init() {
	gin.SetMode(gin.TestMode)
}

func handlerProvider() models.Provider {
	var hours []models.DayHours
	for d := time.Monday; d <= time.Friday; d++ {
		hours = append(hours, models.DayHours{Weekday: d, Open: 540, Close: 1020})
	}
	return models.Provider{
		ID:       "prov-1",
		Name:     "Shine Mobile",
		Currency: "usd",
		Schedule: models.ProviderSchedule{
			WorkingHours:        hours,
			Lunch:               &models.Window{Start: 720, End: 780},
			TravelBufferMinutes: 15,
			Timezone:            "UTC",
		},
		Catalog: []models.ServiceCatalogItem{{ID: "full-detail", Name: "Full Detail", BasePrice: 50, BaseDuration: 60}},
	}
}

type stubIntents struct{}

func (stubIntents) New(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Status: stripe.PaymentIntentStatusRequiresPaymentMethod}, nil
}

func newRouter(t *testing.T, seed ...models.Appointment) *gin.Engine {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC) }
	providers := providerRepo.NewMemoryProviderRepo(handlerProvider())
	appts := appointmentRepo.NewMemoryAppointmentRepo(seed...)
	calc := &booking.DefaultAvailabilityCalculator{Providers: providers, Appointments: appts, Granularity: 30, Logger: zap.NewNop()}
	svc := &booking.DefaultSchedulingService{
		Providers:    providers,
		Appointments: appts,
		Availability: calc,
		Locker:       booking.NewLocalLocker(),
		Policy:       booking.ReschedulePolicy{MaxReschedules: 3},
		Logger:       zap.NewNop(),
		Now:          now,
	}
	seq := &route.Sequencer{Providers: providers, Appointments: appts, Logger: zap.NewNop(), Now: now}

	sh := &SchedulingHandler{
		Availability: calc,
		Scheduling:   svc,
		Payments:     &payment.DefaultPaymentService{Quotes: svc, Intents: stubIntents{}, Logger: zap.NewNop()},
	}
	rh := &RouteHandler{Sequencer: seq, Tracker: route.NewTracker(seq)}
	ph := &ProviderHandler{Service: &provider.DefaultProviderService{Repo: providers, Logger: zap.NewNop(), Now: now}}

	r := gin.New()
	api := r.Group("/api")
	api.GET("/providers/:providerID", ph.GetProviderHandler)
	api.PUT("/providers/:providerID/catalog", ph.UpdateCatalogHandler)
	api.GET("/providers/:providerID/availability", sh.GetAvailabilityHandler)
	api.GET("/providers/:providerID/appointments", sh.DayAppointmentsHandler)
	api.POST("/providers/:providerID/route", rh.ActivateRouteHandler)
	api.POST("/providers/:providerID/location", rh.LocationUpdateHandler)
	api.POST("/bookings/quote", sh.QuoteHandler)
	api.POST("/bookings", sh.ConfirmBookingHandler)
	api.POST("/bookings/payment-intent", sh.PaymentIntentHandler)
	api.POST("/appointments/:appointmentID/reschedule", sh.RescheduleHandler)
	api.POST("/appointments/:appointmentID/arrive", sh.ArriveHandler)
	api.POST("/appointments/:appointmentID/missed", sh.MissedHandler)
	api.DELETE("/appointments/:appointmentID/missed", sh.UndoMissedHandler)
	api.POST("/appointments/:appointmentID/cancel", sh.CancelHandler)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func seeded(id string, start int) models.Appointment {
	return models.Appointment{
		ID:            id,
		ProviderID:    "prov-1",
		CustomerID:    "cust-1",
		ServiceID:     "full-detail",
		BodyType:      models.BodyCar,
		ScheduledDate: monday,
		ScheduledTime: start,
		Duration:      60,
		Site:          models.JobSite{Address: "12 Elm Street", Geo: models.NewGeoPoint(40.7128, -74.0060)},
		Status:        models.StatusScheduled,
	}
}

func TestGetAvailability(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/providers/prov-1/availability?date="+monday+"&duration=60", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.AvailabilityResponse](t, w)
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.True(t, resp.Slots[0].Available)
	assert.Nil(t, resp.Slots[0].Reason)

	lunch := resp.Slots[6]
	assert.Equal(t, "12:00", lunch.StartTime)
	assert.False(t, lunch.Available)
	require.NotNil(t, lunch.Reason)
	assert.Equal(t, models.SlotReasonLunch, *lunch.Reason)
}

func TestGetAvailabilityErrors(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown provider", "/api/providers/ghost/availability?date=" + monday + "&duration=60", http.StatusNotFound, booking.CodeUnknownProvider},
		{"bad duration", "/api/providers/prov-1/availability?date=" + monday + "&duration=abc", http.StatusBadRequest, booking.CodeInvalidDuration},
		{"zero duration", "/api/providers/prov-1/availability?date=" + monday + "&duration=0", http.StatusBadRequest, booking.CodeInvalidDuration},
		{"bad date", "/api/providers/prov-1/availability?date=03-03-2025&duration=60", http.StatusBadRequest, booking.CodeInvalidDate},
		{"half a coordinate", "/api/providers/prov-1/availability?date=" + monday + "&duration=60&lat=40.7", http.StatusBadRequest, booking.CodeInvalidLocation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[map[string]any](t, w)["code"])
		})
	}
}

func TestConfirmBookingAndConflict(t *testing.T) {
	r := newRouter(t)
	body := models.BookingRequest{
		ProviderID: "prov-1",
		CustomerID: "cust-9",
		Date:       monday,
		StartTime:  "10:00",
		Address:    "400 Oak Avenue",
		Location:   models.LatLng{Lat: 40.7580, Lng: -73.9855},
		Items:      []models.BookingCartItem{{ServiceID: "full-detail", BodyType: models.BodyCar}},
	}

	w := do(t, r, http.MethodPost, "/api/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/bookings", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	taken := decode[map[string]any](t, w)
	assert.Equal(t, booking.CodeSlotUnavailable, taken["code"])
	assert.Equal(t, string(models.SlotReasonBooked), taken["reason"])

	w = do(t, r, http.MethodGet, "/api/providers/prov-1/appointments?date="+monday, nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[struct {
		Appointments []models.Appointment `json:"appointments"`
	}](t, w)
	require.Len(t, day.Appointments, 1)
	assert.Equal(t, 600, day.Appointments[0].ScheduledTime)

	body.Items = nil
	w = do(t, r, http.MethodPost, "/api/bookings", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteAndPaymentIntent(t *testing.T) {
	r := newRouter(t)
	items := []models.BookingCartItem{
		{ServiceID: "full-detail", BodyType: models.BodyCar},
		{ServiceID: "full-detail", BodyType: models.BodyCar},
	}

	w := do(t, r, http.MethodPost, "/api/bookings/quote", gin.H{"providerId": "prov-1", "items": items})
	require.Equal(t, http.StatusOK, w.Code)
	quote := decode[struct {
		Quote models.Quote `json:"quote"`
	}](t, w).Quote
	assert.Equal(t, 100.0, quote.TotalPrice)
	assert.Equal(t, int64(10000), quote.TotalMinor)
	assert.Equal(t, 120, quote.TotalDuration)

	w = do(t, r, http.MethodPost, "/api/bookings/quote", gin.H{"providerId": "prov-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, booking.CodeEmptyCart, decode[map[string]any](t, w)["code"])

	w = do(t, r, http.MethodPost, "/api/bookings/payment-intent", models.PaymentIntentRequest{ProviderID: "prov-1", CustomerID: "cust-1", Items: items})
	require.Equal(t, http.StatusCreated, w.Code)
	intent := decode[struct {
		PaymentIntent models.PaymentIntent `json:"paymentIntent"`
	}](t, w).PaymentIntent
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	assert.Equal(t, 100.0, intent.Amount)
}

func TestRescheduleLimitIsPolicyViolation(t *testing.T) {
	appt := seeded("appt-1", 600)
	appt.RescheduleCount = 3
	appt.Status = models.StatusRescheduled
	r := newRouter(t, appt)

	w := do(t, r, http.MethodPost, "/api/appointments/appt-1/reschedule", models.RescheduleRequest{NewDate: monday, NewTime: "14:00"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, booking.CodeRescheduleLimit, resp["code"])
	assert.Equal(t, "rescheduleCount", resp["field"])
	assert.Equal(t, float64(3), resp["limit"])
}

func TestAppointmentTransitions(t *testing.T) {
	r := newRouter(t, seeded("appt-1", 600))

	w := do(t, r, http.MethodPost, "/api/appointments/appt-1/reschedule", models.RescheduleRequest{NewDate: monday, NewTime: "14:00", Reason: "weather"})
	require.Equal(t, http.StatusOK, w.Code)
	moved := decode[struct {
		Appointment models.Appointment `json:"appointment"`
	}](t, w).Appointment
	assert.Equal(t, 840, moved.ScheduledTime)
	assert.Equal(t, 1, moved.RescheduleCount)

	w = do(t, r, http.MethodPost, "/api/appointments/appt-1/missed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodDelete, "/api/appointments/appt-1/missed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodPost, "/api/appointments/appt-1/arrive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodPost, "/api/appointments/appt-1/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/appointments/appt-1/arrive", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodPost, "/api/appointments/ghost/arrive", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouteEndpoints(t *testing.T) {
	r := newRouter(t, seeded("appt-1", 600), seeded("appt-2", 480))
	here := gin.H{"location": gin.H{"lat": 40.7128, "lng": -74.0060}, "date": monday}

	w := do(t, r, http.MethodPost, "/api/providers/prov-1/route", here)
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[struct {
		Route models.RoutePlan `json:"route"`
	}](t, w).Route
	require.Len(t, plan.Stops, 2)
	assert.Equal(t, "appt-2", plan.Stops[0].Appointment.ID)
	assert.False(t, plan.ETAAvailable)
	assert.True(t, plan.NearNextJob)

	w = do(t, r, http.MethodPost, "/api/providers/prov-1/location", here)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["nearNextJob"])

	w = do(t, r, http.MethodPost, "/api/providers/prov-1/route", gin.H{"date": monday})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/providers/ghost/route", here)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProviderCatalogUpdate(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPut, "/api/providers/prov-1/catalog", gin.H{"catalog": []models.ServiceCatalogItem{
		{ID: "wash", Name: "Wash", BasePrice: 25, BaseDuration: 30},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/providers/prov-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[struct {
		Provider models.Provider `json:"provider"`
	}](t, w).Provider
	require.Len(t, p.Catalog, 1)
	assert.Equal(t, "wash", p.Catalog[0].ID)

	w = do(t, r, http.MethodPut, "/api/providers/prov-1/catalog", gin.H{"catalog": []models.ServiceCatalogItem{{ID: "wash"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/providers/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  *booking.SchedulingError
		want int
	}{
		{&booking.SchedulingError{Kind: booking.KindInvalidInput, Code: booking.CodeInvalidDate}, http.StatusBadRequest},
		{&booking.SchedulingError{Kind: booking.KindInvalidInput, Code: booking.CodeUnknownProvider}, http.StatusNotFound},
		{&booking.SchedulingError{Kind: booking.KindNotFound}, http.StatusNotFound},
		{&booking.SchedulingError{Kind: booking.KindPolicyViolation}, http.StatusUnprocessableEntity},
		{&booking.SchedulingError{Kind: booking.KindConflict}, http.StatusConflict},
		{&booking.SchedulingError{Kind: booking.KindCollaboratorUnavailable}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), string(tt.err.Kind))
	}
}
