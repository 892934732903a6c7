package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

type coordinates struct {
	Lon float64
	Lat float64
}

func (c coordinates) list() []float64 {
	return []float64{c.Lon, c.Lat}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocode resolves a place name through /geocode/search, consulting the cache first.
func (o *ORS) geocode(ctx context.Context, place string) (coordinates, error) {
	key := "geocode:" + strings.ToLower(place)
	if o.cache != nil {
		if raw, err := o.cache.Get(ctx, key); err == nil {
			if c, ok := parseCoordinates(raw); ok {
				return c, nil
			}
		}
	}

	endpoint := o.cfg.BaseURL + "/geocode/search"
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", place)
		q.Set("size", "1")
		if o.cfg.Country != "" {
			q.Set("boundary.country", o.cfg.Country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return coordinates{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return coordinates{}, fmt.Errorf("%w: no geocode results for %q", domain.ErrNotFound, place)
	}

	raw := decoded.Features[0].Geometry.Coordinates
	if len(raw) != 2 {
		return coordinates{}, fmt.Errorf("invalid coordinate format for %q", place)
	}

	c := coordinates{Lon: raw[0], Lat: raw[1]}
	o.store(ctx, key, formatCoordinates(c))
	return c, nil
}

func formatCoordinates(c coordinates) string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

func parseCoordinates(raw string) (coordinates, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return coordinates{}, false
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return coordinates{}, false
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return coordinates{}, false
	}
	return coordinates{Lon: lon, Lat: lat}, true
}
