package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	TripsPlannedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evrecharge_trips_planned_total",
		Help: "Trip plans computed, by outcome",
	}, []string{"outcome"})

	TripChargingStops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "evrecharge_trip_charging_stops",
		Help:    "Charging stops per planned trip",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10, 15},
	})

	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evrecharge_reservations_total",
		Help: "Reservation lifecycle transitions",
	}, []string{"status"})

	StationPortsAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "evrecharge_station_ports_available",
		Help: "Free charging ports per station",
	}, []string{"station_id"})

	// Infrastructure metrics
	DistanceLookupLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evrecharge_distance_lookup_seconds",
		Help:    "Latency of route distance lookups",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evrecharge_cache_requests_total",
		Help: "Station cache lookups",
	}, []string{"result"})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "evrecharge_websocket_clients",
		Help: "Connected station feed clients",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evrecharge_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
)
