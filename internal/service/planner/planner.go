// Package planner estimates charging stops for an EV trip.
//
// Plan is a pure function of its inputs and a Policy; it performs no I/O
// and holds no state, so a Planner may be shared between goroutines.
package planner

import (
	"fmt"
	"math"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

// MaxStops bounds the number of charging stops a single plan may contain.
// Requests that would need more are rejected as invalid input.
const MaxStops = 1000

// Policy groups the constants the estimate is built from
type Policy struct {
	AssumedSpeedMPH         float64
	SafetyFactor            float64
	ChargingDurationMinutes int
	// StopHours is the flat time cost added to the estimate per stop,
	// independent of ChargingDurationMinutes
	StopHours    float64
	ChargerClass string
	PowerRating  string
}

// DefaultPolicy returns the policy used by the booking site
func DefaultPolicy() Policy {
	return Policy{
		AssumedSpeedMPH:         60,
		SafetyFactor:            0.8,
		ChargingDurationMinutes: 30,
		StopHours:               0.5,
		ChargerClass:            "DC Fast Charger",
		PowerRating:             "150 kW",
	}
}

func (p Policy) validate() error {
	if p.AssumedSpeedMPH <= 0 {
		return fmt.Errorf("planner policy: assumed speed must be positive")
	}
	if p.SafetyFactor <= 0 || p.SafetyFactor > 1 {
		return fmt.Errorf("planner policy: safety factor must be in (0, 1]")
	}
	if p.ChargingDurationMinutes < 0 {
		return fmt.Errorf("planner policy: charging duration must not be negative")
	}
	if p.StopHours < 0 {
		return fmt.Errorf("planner policy: stop hours must not be negative")
	}
	return nil
}

// Planner converts trip requests into trip plans
type Planner struct {
	policy Policy
}

// New creates a planner for the given policy
func New(policy Policy) (*Planner, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	return &Planner{policy: policy}, nil
}

// Default returns a planner using DefaultPolicy
func Default() *Planner {
	return &Planner{policy: DefaultPolicy()}
}

// Policy returns the planner's policy
func (p *Planner) Policy() Policy {
	return p.policy
}

// Plan computes the charging stops for a trip. All failures are
// domain.ErrInvalidInput.
func (p *Planner) Plan(req domain.TripRequest) (*domain.TripPlan, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	available := req.VehicleRangeMiles * float64(req.CurrentChargePercent) / 100
	if available <= 0 {
		return nil, domain.NewInvalidInput("current_charge_percent", "leaves no usable range")
	}

	driving := req.DistanceMiles / p.policy.AssumedSpeedMPH

	if available >= req.DistanceMiles {
		return &domain.TripPlan{
			TotalDistanceMiles:      req.DistanceMiles,
			EstimatedTotalTimeHours: round2(driving),
			Stops:                   []domain.ChargingStop{},
		}, nil
	}

	leg := available * p.policy.SafetyFactor
	needed := math.Ceil(req.DistanceMiles/leg) - 1
	if needed > MaxStops {
		return nil, domain.NewInvalidInput("distance_miles", "needs too many charging stops")
	}
	stops := make([]domain.ChargingStop, 0, int(needed)+1)

	remaining := req.DistanceMiles
	for remaining > leg && len(stops) <= MaxStops {
		n := len(stops) + 1
		// multiply rather than accumulate so positions don't drift
		position := float64(n) * leg
		stops = append(stops, domain.ChargingStop{
			SequenceNumber:          n,
			Name:                    fmt.Sprintf("Charging Stop %d", n),
			Location:                fmt.Sprintf("Mile %.1f", position),
			PositionMiles:           position,
			ChargingDurationMinutes: p.policy.ChargingDurationMinutes,
			ChargerClass:            p.policy.ChargerClass,
			PowerRating:             p.policy.PowerRating,
		})
		remaining = req.DistanceMiles - position
	}

	return &domain.TripPlan{
		TotalDistanceMiles:      req.DistanceMiles,
		EstimatedTotalTimeHours: round2(driving + float64(len(stops))*p.policy.StopHours),
		Stops:                   stops,
	}, nil
}

func validate(req domain.TripRequest) error {
	if math.IsNaN(req.DistanceMiles) || math.IsInf(req.DistanceMiles, 0) || req.DistanceMiles <= 0 {
		return domain.NewInvalidInput("distance_miles", "must be greater than 0")
	}
	if math.IsNaN(req.VehicleRangeMiles) || math.IsInf(req.VehicleRangeMiles, 0) || req.VehicleRangeMiles <= 0 {
		return domain.NewInvalidInput("vehicle_range_miles", "must be greater than 0")
	}
	if req.CurrentChargePercent < 0 || req.CurrentChargePercent > 100 {
		return domain.NewInvalidInput("current_charge_percent", "must be between 0 and 100")
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
