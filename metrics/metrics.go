package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for the scheduling engine.
type EngineMetrics struct {
	availabilityTotal *prometheus.CounterVec
	slotReasons       *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	reschedulesTotal  *prometheus.CounterVec
	directionsTotal   *prometheus.CounterVec
	directionsLatency prometheus.Histogram
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shinely",
			Subsystem: "scheduling",
			Name:      "availability_queries_total",
			Help:      "Availability queries by outcome",
		}, []string{"outcome"}),
		slotReasons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shinely",
			Subsystem: "scheduling",
			Name:      "slots_total",
			Help:      "Computed slots by unavailability reason (empty when available)",
		}, []string{"reason"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shinely",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking confirmations by outcome",
		}, []string{"outcome"}),
		reschedulesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shinely",
			Subsystem: "scheduling",
			Name:      "reschedules_total",
			Help:      "Reschedule requests by outcome",
		}, []string{"outcome"}),
		directionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shinely",
			Subsystem: "route",
			Name:      "directions_requests_total",
			Help:      "Directions lookups by outcome",
		}, []string{"outcome"}),
		directionsLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shinely",
			Subsystem: "route",
			Name:      "directions_latency_seconds",
			Help:      "Latency of directions lookups",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.slotReasons, m.bookingsTotal, m.reschedulesTotal, m.directionsTotal, m.directionsLatency)
	return m
}

func (m *EngineMetrics) ObserveAvailability(outcome string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveSlot(reason string) {
	if m == nil {
		return
	}
	m.slotReasons.WithLabelValues(reason).Inc()
}

func (m *EngineMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveReschedule(outcome string) {
	if m == nil {
		return
	}
	m.reschedulesTotal.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveDirections(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.directionsTotal.WithLabelValues(outcome).Inc()
	m.directionsLatency.Observe(seconds)
}
