package domain

import "time"

// Vehicle is an EV model with its full-charge range
type Vehicle struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Label      string    `json:"label" gorm:"uniqueIndex"`
	RangeMiles float64   `json:"range_miles"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultVehicles is the built-in catalog offered by the trip planner form
func DefaultVehicles() []Vehicle {
	return []Vehicle{
		{Label: "Tesla Model 3", RangeMiles: 358},
		{Label: "Tesla Model Y", RangeMiles: 330},
		{Label: "Nissan Leaf", RangeMiles: 226},
		{Label: "Chevrolet Bolt EV", RangeMiles: 259},
		{Label: "BMW i3", RangeMiles: 153},
		{Label: "Ford Mustang Mach-E", RangeMiles: 312},
		{Label: "Hyundai Ioniq 5", RangeMiles: 303},
		{Label: "Kia EV6", RangeMiles: 310},
	}
}
