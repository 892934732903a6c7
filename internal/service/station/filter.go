package station

import (
	"math"
	"sort"
	"strings"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

func validateFilter(f domain.StationFilter) error {
	if f.MinAvailability < 0 {
		return domain.NewInvalidInput("min_availability", "must not be negative")
	}
	if f.MinRating < 0 || f.MinRating > 5 {
		return domain.NewInvalidInput("min_rating", "must be between 0 and 5")
	}
	if f.MaxDistanceMiles < 0 {
		return domain.NewInvalidInput("max_distance", "must not be negative")
	}
	if (f.Latitude == nil) != (f.Longitude == nil) {
		return domain.NewInvalidInput("lat", "lat and lon must be given together")
	}
	if f.HasOrigin() {
		if *f.Latitude < -90 || *f.Latitude > 90 {
			return domain.NewInvalidInput("lat", "must be between -90 and 90")
		}
		if *f.Longitude < -180 || *f.Longitude > 180 {
			return domain.NewInvalidInput("lon", "must be between -180 and 180")
		}
	}
	return nil
}

// applyFilter returns the stations matching f. With an origin, results carry
// their distance and are ordered nearest first; otherwise by name.
func applyFilter(stations []domain.Station, f domain.StationFilter) []domain.Station {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	types := make(map[string]struct{}, len(f.Types))
	for _, t := range f.Types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			types[t] = struct{}{}
		}
	}

	out := make([]domain.Station, 0, len(stations))
	for _, s := range stations {
		if len(types) > 0 {
			if _, ok := types[strings.ToLower(s.Type)]; !ok {
				continue
			}
		}
		if s.Available < f.MinAvailability {
			continue
		}
		if s.Rating < f.MinRating {
			continue
		}
		if query != "" && !matchesQuery(s, query) {
			continue
		}

		s.DistanceMiles = nil
		if f.HasOrigin() {
			d := math.Round(haversineMiles(*f.Latitude, *f.Longitude, s.Latitude, s.Longitude)*10) / 10
			if f.MaxDistanceMiles > 0 && d > f.MaxDistanceMiles {
				continue
			}
			s.DistanceMiles = &d
		}

		out = append(out, s)
	}

	if f.HasOrigin() {
		sort.SliceStable(out, func(i, j int) bool {
			return *out[i].DistanceMiles < *out[j].DistanceMiles
		})
	} else {
		sortByName(out)
	}
	return out
}

func matchesQuery(s domain.Station, query string) bool {
	return strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.Address), query) ||
		strings.Contains(strings.ToLower(s.Type), query)
}

func sortByName(stations []domain.Station) {
	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].Name < stations[j].Name
	})
}
