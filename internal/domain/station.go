package domain

import (
	"time"
)

// Station is a public charging station
type Station struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Type      string    `json:"type" gorm:"index"` // DC Fast, Level 2, Tesla Supercharger...
	Price     string    `json:"price"`
	PowerKW   float64   `json:"power_kw"`
	Rating    float64   `json:"rating"`
	Reviews   int       `json:"reviews"`
	Available int       `json:"available"`
	Total     int       `json:"total"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Set on nearby/filtered results when an origin is supplied
	DistanceMiles *float64 `json:"distance_miles,omitempty" gorm:"-"`
}

// IsAvailable returns true if at least one port is free
func (s *Station) IsAvailable() bool {
	return s.Available > 0
}

// Validate checks the station invariants
func (s *Station) Validate() error {
	if s.Name == "" {
		return NewInvalidInput("name", "is required")
	}
	if s.Total < 0 {
		return NewInvalidInput("total", "must not be negative")
	}
	if s.Available < 0 || s.Available > s.Total {
		return NewInvalidInput("available", "must be between 0 and total")
	}
	if s.Rating < 0 || s.Rating > 5 {
		return NewInvalidInput("rating", "must be between 0 and 5")
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return NewInvalidInput("latitude", "must be between -90 and 90")
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return NewInvalidInput("longitude", "must be between -180 and 180")
	}
	return nil
}

// StationFilter narrows a station listing. Zero values disable a criterion.
type StationFilter struct {
	Query            string   `json:"query,omitempty"`
	Types            []string `json:"types,omitempty"`
	MinAvailability  int      `json:"min_availability,omitempty"`
	MinRating        float64  `json:"min_rating,omitempty"`
	MaxDistanceMiles float64  `json:"max_distance_miles,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// HasOrigin reports whether a reference point was supplied
func (f StationFilter) HasOrigin() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// Favorite links a user to a station they starred
type Favorite struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	StationID string    `json:"station_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// StationUpdatedEvent is broadcast whenever availability changes
type StationUpdatedEvent struct {
	StationID  string    `json:"station_id"`
	Available  int       `json:"available"`
	Total      int       `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}
