package domain

import (
	"time"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusActive    ReservationStatus = "active" // user arrived and is charging
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

// HoldingStatuses are the statuses that occupy a port at the station
var HoldingStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusActive,
}

// Reservation represents a charging station reservation
type Reservation struct {
	ID                 string            `json:"id" gorm:"primaryKey"`
	UserID             string            `json:"user_id" gorm:"index"`
	StationID          string            `json:"station_id" gorm:"index"`
	Status             ReservationStatus `json:"status" gorm:"index"`
	StartTime          time.Time         `json:"start_time" gorm:"index"`
	EndTime            time.Time         `json:"end_time"`
	Duration           int               `json:"duration"` // minutes
	Notes              string            `json:"notes,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	Station *Station `json:"station,omitempty" gorm:"foreignKey:StationID"`
}

// ReservationConfig holds reservation system configuration
type ReservationConfig struct {
	MaxDurationMinutes          int `json:"max_duration_minutes"`
	MinDurationMinutes          int `json:"min_duration_minutes"`
	MaxAdvanceBookingDays       int `json:"max_advance_booking_days"`
	GracePeriodMinutes          int `json:"grace_period_minutes"`
	CancellationDeadlineMinutes int `json:"cancellation_deadline_minutes"`
	MaxActiveReservations       int `json:"max_active_reservations"`
}

// DefaultReservationConfig returns sensible defaults
func DefaultReservationConfig() *ReservationConfig {
	return &ReservationConfig{
		MaxDurationMinutes:          180,
		MinDurationMinutes:          30,
		MaxAdvanceBookingDays:       7,
		GracePeriodMinutes:          15,
		CancellationDeadlineMinutes: 60,
		MaxActiveReservations:       2,
	}
}

// IsActive returns true if the reservation is currently active
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsPending returns true if the reservation is pending or confirmed
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// HoldsPort returns true while the reservation occupies a port
func (r *Reservation) HoldsPort() bool {
	for _, s := range HoldingStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.IsPending()
}

// IsExpired returns true if a confirmed reservation passed its grace period
func (r *Reservation) IsExpired(now time.Time, gracePeriod time.Duration) bool {
	if r.Status != ReservationStatusConfirmed {
		return false
	}
	return now.After(r.StartTime.Add(gracePeriod))
}

// Overlaps reports whether the reservation intersects [start, end)
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && r.EndTime.After(start)
}

// TimeSlot represents an available time slot
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// ReservationSummary provides a summary of reservations
type ReservationSummary struct {
	TotalReservations     int     `json:"total_reservations"`
	PendingReservations   int     `json:"pending_reservations"`
	CompletedReservations int     `json:"completed_reservations"`
	CancelledReservations int     `json:"cancelled_reservations"`
	NoShowCount           int     `json:"no_show_count"`
	AverageDuration       float64 `json:"average_duration_minutes"`
}

// ReservationEvent is published on reservation lifecycle changes
type ReservationEvent struct {
	ReservationID string            `json:"reservation_id"`
	UserID        string            `json:"user_id"`
	StationID     string            `json:"station_id"`
	Status        ReservationStatus `json:"status"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
