package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

func TestPlan_SufficientCharge(t *testing.T) {
	p := Default()

	plan, err := p.Plan(domain.TripRequest{DistanceMiles: 100, VehicleRangeMiles: 358, CurrentChargePercent: 50})

	require.NoError(t, err)
	assert.Empty(t, plan.Stops)
	assert.NotNil(t, plan.Stops)
	assert.Equal(t, 100.0, plan.TotalDistanceMiles)
	assert.Equal(t, 1.67, plan.EstimatedTotalTimeHours)
	assert.False(t, plan.NeedsCharging())
}

func TestPlan_ExactlyEnoughRange(t *testing.T) {
	plan, err := Default().Plan(domain.TripRequest{DistanceMiles: 179, VehicleRangeMiles: 358, CurrentChargePercent: 50})

	require.NoError(t, err)
	assert.Empty(t, plan.Stops)
	assert.Equal(t, round2(179.0/60), plan.EstimatedTotalTimeHours)
}

func TestPlan_InsufficientCharge(t *testing.T) {
	plan, err := Default().Plan(domain.TripRequest{DistanceMiles: 300, VehicleRangeMiles: 358, CurrentChargePercent: 50})

	require.NoError(t, err)
	require.Len(t, plan.Stops, 2)
	assert.InDelta(t, 143.2, plan.Stops[0].PositionMiles, 1e-9)
	assert.InDelta(t, 286.4, plan.Stops[1].PositionMiles, 1e-9)
	assert.Equal(t, 6.0, plan.EstimatedTotalTimeHours)

	for i, stop := range plan.Stops {
		assert.Equal(t, i+1, stop.SequenceNumber)
		assert.Equal(t, 30, stop.ChargingDurationMinutes)
		assert.Equal(t, "DC Fast Charger", stop.ChargerClass)
		assert.Equal(t, "150 kW", stop.PowerRating)
	}
	assert.Equal(t, "Charging Stop 1", plan.Stops[0].Name)
	assert.Equal(t, "Mile 143.2", plan.Stops[0].Location)
	assert.Equal(t, "Mile 286.4", plan.Stops[1].Location)
}

func TestPlan_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		req   domain.TripRequest
		field string
	}{
		{"zero distance", domain.TripRequest{DistanceMiles: 0, VehicleRangeMiles: 300, CurrentChargePercent: 50}, "distance_miles"},
		{"negative distance", domain.TripRequest{DistanceMiles: -10, VehicleRangeMiles: 300, CurrentChargePercent: 50}, "distance_miles"},
		{"NaN distance", domain.TripRequest{DistanceMiles: math.NaN(), VehicleRangeMiles: 300, CurrentChargePercent: 50}, "distance_miles"},
		{"zero range", domain.TripRequest{DistanceMiles: 100, VehicleRangeMiles: 0, CurrentChargePercent: 50}, "vehicle_range_miles"},
		{"negative range", domain.TripRequest{DistanceMiles: 100, VehicleRangeMiles: -1, CurrentChargePercent: 50}, "vehicle_range_miles"},
		{"charge below zero", domain.TripRequest{DistanceMiles: 100, VehicleRangeMiles: 300, CurrentChargePercent: -1}, "current_charge_percent"},
		{"charge above hundred", domain.TripRequest{DistanceMiles: 100, VehicleRangeMiles: 300, CurrentChargePercent: 101}, "current_charge_percent"},
		{"empty battery", domain.TripRequest{DistanceMiles: 100, VehicleRangeMiles: 300, CurrentChargePercent: 0}, "current_charge_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Default().Plan(tt.req)

			require.Error(t, err)
			assert.Nil(t, plan)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))

			var invalid *domain.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestPlan_Properties(t *testing.T) {
	p := Default()

	for _, distance := range []float64{12.5, 75, 150, 299.9, 480, 777.7, 1234, 2500} {
		for _, vehicleRange := range []float64{90, 153, 226, 310, 358} {
			for _, charge := range []int{1, 7, 25, 50, 83, 100} {
				req := domain.TripRequest{DistanceMiles: distance, VehicleRangeMiles: vehicleRange, CurrentChargePercent: charge}
				plan, err := p.Plan(req)

				available := vehicleRange * float64(charge) / 100
				if math.Ceil(distance/(available*0.8))-1 > MaxStops {
					assert.ErrorIs(t, err, domain.ErrInvalidInput, "req %+v", req)
					continue
				}
				require.NoError(t, err)
				if available >= distance {
					assert.Empty(t, plan.Stops, "req %+v", req)
					assert.Equal(t, round2(distance/60), plan.EstimatedTotalTimeHours)
					continue
				}

				require.NotEmpty(t, plan.Stops, "req %+v", req)
				for i := 1; i < len(plan.Stops); i++ {
					assert.Greater(t, plan.Stops[i].PositionMiles, plan.Stops[i-1].PositionMiles)
				}
				assert.Less(t, plan.Stops[len(plan.Stops)-1].PositionMiles, distance)
				assert.Equal(t, round2(distance/60+float64(len(plan.Stops))*0.5), plan.EstimatedTotalTimeHours)

				ratio := distance / (available * 0.8)
				if math.Abs(ratio-math.Round(ratio)) < 1e-9 {
					continue
				}
				assert.Equal(t, int(math.Ceil(ratio))-1, len(plan.Stops), "req %+v", req)
			}
		}
	}
}

func TestPlan_Idempotent(t *testing.T) {
	p := Default()
	req := domain.TripRequest{DistanceMiles: 640, VehicleRangeMiles: 226, CurrentChargePercent: 64}

	first, err := p.Plan(req)
	require.NoError(t, err)
	second, err := p.Plan(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlan_CustomPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.ChargingDurationMinutes = 45

	p, err := New(policy)
	require.NoError(t, err)

	plan, err := p.Plan(domain.TripRequest{DistanceMiles: 300, VehicleRangeMiles: 358, CurrentChargePercent: 50})
	require.NoError(t, err)
	require.Len(t, plan.Stops, 2)
	assert.Equal(t, 45, plan.Stops[0].ChargingDurationMinutes)
	// the per-stop time cost stays flat
	assert.Equal(t, 6.0, plan.EstimatedTotalTimeHours)
}

func TestPlan_CustomStopHours(t *testing.T) {
	policy := DefaultPolicy()
	policy.StopHours = 0.75

	p, err := New(policy)
	require.NoError(t, err)

	plan, err := p.Plan(domain.TripRequest{DistanceMiles: 300, VehicleRangeMiles: 358, CurrentChargePercent: 50})
	require.NoError(t, err)
	require.Len(t, plan.Stops, 2)
	assert.Equal(t, 30, plan.Stops[0].ChargingDurationMinutes)
	assert.Equal(t, 6.5, plan.EstimatedTotalTimeHours)
}

func TestPlan_RejectsTooManyStops(t *testing.T) {
	p := Default()

	tests := []struct {
		name string
		req  domain.TripRequest
	}{
		{"huge distance", domain.TripRequest{DistanceMiles: 1e12, VehicleRangeMiles: 1, CurrentChargePercent: 1}},
		{"large distance", domain.TripRequest{DistanceMiles: 1e8, VehicleRangeMiles: 1, CurrentChargePercent: 1}},
		{"tiny range", domain.TripRequest{DistanceMiles: 500, VehicleRangeMiles: 1e-300, CurrentChargePercent: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var plan *domain.TripPlan
			var err error
			require.NotPanics(t, func() {
				plan, err = p.Plan(tt.req)
			})

			assert.Nil(t, plan)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var invalid *domain.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "distance_miles", invalid.Field)
		})
	}
}

func TestPlan_StopLimitBoundary(t *testing.T) {
	p := Default()
	// leg is 0.8 miles, so 800.5 miles needs exactly MaxStops stops
	plan, err := p.Plan(domain.TripRequest{DistanceMiles: 800.5, VehicleRangeMiles: 100, CurrentChargePercent: 1})
	require.NoError(t, err)
	assert.Len(t, plan.Stops, MaxStops)
	assert.Less(t, plan.Stops[len(plan.Stops)-1].PositionMiles, 800.5)

	_, err = p.Plan(domain.TripRequest{DistanceMiles: 900, VehicleRangeMiles: 100, CurrentChargePercent: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_RejectsBadPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.SafetyFactor = 0

	_, err := New(policy)
	assert.Error(t, err)

	policy = DefaultPolicy()
	policy.AssumedSpeedMPH = -5
	_, err = New(policy)
	assert.Error(t, err)
}
