package domain

import (
	"time"
)

// TripRequest holds the planner inputs
type TripRequest struct {
	DistanceMiles        float64 `json:"distance_miles"`
	VehicleRangeMiles    float64 `json:"vehicle_range_miles"`
	CurrentChargePercent int     `json:"current_charge_percent"`
}

// ChargingStop represents a planned charging stop along a trip
type ChargingStop struct {
	SequenceNumber          int     `json:"sequence_number"`
	Name                    string  `json:"name"`
	Location                string  `json:"location"`
	PositionMiles           float64 `json:"position_miles"`
	ChargingDurationMinutes int     `json:"charging_duration_minutes"`
	ChargerClass            string  `json:"charger_class"`
	PowerRating             string  `json:"power_rating"`
}

// TripPlan is the planner output. Stops is never nil.
type TripPlan struct {
	TotalDistanceMiles      float64        `json:"total_distance_miles"`
	EstimatedTotalTimeHours float64        `json:"estimated_total_time_hours"`
	Stops                   []ChargingStop `json:"stops"`
}

// NeedsCharging reports whether the plan contains any stop
func (p *TripPlan) NeedsCharging() bool {
	return len(p.Stops) > 0
}

// TripRecord is a saved trip plan in a user's history
type TripRecord struct {
	ID                      string         `json:"id" gorm:"primaryKey"`
	UserID                  string         `json:"user_id" gorm:"index"`
	StartLocation           string         `json:"start_location"`
	Destination             string         `json:"destination"`
	CarModel                string         `json:"car_model"`
	CurrentChargePercent    int            `json:"current_charge_percent"`
	TotalDistanceMiles      float64        `json:"total_distance_miles"`
	EstimatedTotalTimeHours float64        `json:"estimated_total_time_hours"`
	Stops                   []ChargingStop `json:"stops" gorm:"serializer:json"`
	CreatedAt               time.Time      `json:"created_at" gorm:"index"`
}

// PlanTripRequest is a full trip planning request coming from a user
type PlanTripRequest struct {
	UserID               string  `json:"-"`
	StartLocation        string  `json:"start_location"`
	Destination          string  `json:"destination"`
	CarModel             string  `json:"car_model"`
	VehicleRangeMiles    float64 `json:"vehicle_range_miles,omitempty"` // used when CarModel is empty
	CurrentChargePercent int     `json:"current_charge_percent"`
	Save                 bool    `json:"save"`
}

// TripPlannedEvent is published after a trip is saved
type TripPlannedEvent struct {
	TripID     string    `json:"trip_id"`
	UserID     string    `json:"user_id"`
	Distance   float64   `json:"total_distance_miles"`
	StopCount  int       `json:"stop_count"`
	OccurredAt time.Time `json:"occurred_at"`
}
