package station

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/mocks"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func ptr(v float64) *float64 { return &v }

// Three stations around the San Francisco bay
func sampleStations() []domain.Station {
	return []domain.Station{
		{ID: "s1", Name: "Mission Bay Supercharger", Address: "1 Third St, San Francisco", Type: "Tesla Supercharger", Rating: 4.7, Available: 4, Total: 12, Latitude: 37.7749, Longitude: -122.4194},
		{ID: "s2", Name: "Oakland Fast Hub", Address: "200 Broadway, Oakland", Type: "DC Fast", Rating: 4.1, Available: 0, Total: 6, Latitude: 37.8044, Longitude: -122.2712},
		{ID: "s3", Name: "Palo Alto Level 2", Address: "50 University Ave, Palo Alto", Type: "Level 2", Rating: 3.5, Available: 2, Total: 4, Latitude: 37.4419, Longitude: -122.1430},
	}
}

func stationRepo(stations []domain.Station) *mocks.MockStationRepository {
	return &mocks.MockStationRepository{
		FindAllFunc: func(ctx context.Context) ([]domain.Station, error) {
			out := make([]domain.Station, len(stations))
			copy(out, stations)
			return out, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Station, error) {
			for _, s := range stations {
				if s.ID == id {
					found := s
					return &found, nil
				}
			}
			return nil, domain.ErrNotFound
		},
	}
}

func names(stations []domain.Station) []string {
	out := make([]string, 0, len(stations))
	for _, s := range stations {
		out = append(out, s.Name)
	}
	return out
}

func TestList_Filters(t *testing.T) {
	svc := NewService(stationRepo(sampleStations()), &mocks.MockFavoriteRepository{}, nil, 0, nil, nil, newTestLogger())
	sf := domain.StationFilter{Latitude: ptr(37.7749), Longitude: ptr(-122.4194)}

	tests := []struct {
		name   string
		filter domain.StationFilter
		want   []string
	}{
		{"no filter sorts by name", domain.StationFilter{}, []string{"Mission Bay Supercharger", "Oakland Fast Hub", "Palo Alto Level 2"}},
		{"type any of, case insensitive", domain.StationFilter{Types: []string{"dc fast", "LEVEL 2"}}, []string{"Oakland Fast Hub", "Palo Alto Level 2"}},
		{"min availability", domain.StationFilter{MinAvailability: 1}, []string{"Mission Bay Supercharger", "Palo Alto Level 2"}},
		{"min rating", domain.StationFilter{MinRating: 4}, []string{"Mission Bay Supercharger", "Oakland Fast Hub"}},
		{"query matches address", domain.StationFilter{Query: "oakland"}, []string{"Oakland Fast Hub"}},
		{"query matches type", domain.StationFilter{Query: "supercharger"}, []string{"Mission Bay Supercharger"}},
		{"origin orders by distance", sf, []string{"Mission Bay Supercharger", "Oakland Fast Hub", "Palo Alto Level 2"}},
		{"max distance", domain.StationFilter{Latitude: sf.Latitude, Longitude: sf.Longitude, MaxDistanceMiles: 15}, []string{"Mission Bay Supercharger", "Oakland Fast Hub"}},
		{"max distance without origin is ignored", domain.StationFilter{MaxDistanceMiles: 1}, []string{"Mission Bay Supercharger", "Oakland Fast Hub", "Palo Alto Level 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestList_DistanceAnnotated(t *testing.T) {
	svc := NewService(stationRepo(sampleStations()), &mocks.MockFavoriteRepository{}, nil, 0, nil, nil, newTestLogger())

	got, err := svc.List(context.Background(), domain.StationFilter{Latitude: ptr(37.7749), Longitude: ptr(-122.4194)})
	require.NoError(t, err)

	require.NotNil(t, got[0].DistanceMiles)
	assert.Equal(t, 0.0, *got[0].DistanceMiles)
	assert.InDelta(t, 8.4, *got[1].DistanceMiles, 0.5)
}

func TestList_InvalidFilter(t *testing.T) {
	svc := NewService(stationRepo(nil), &mocks.MockFavoriteRepository{}, nil, 0, nil, nil, newTestLogger())

	for _, f := range []domain.StationFilter{
		{MinRating: 6},
		{MinAvailability: -1},
		{MaxDistanceMiles: -2},
		{Latitude: ptr(10)},
		{Latitude: ptr(91), Longitude: ptr(0)},
	} {
		_, err := svc.List(context.Background(), f)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "filter %+v", f)
	}
}

func TestList_UsesCache(t *testing.T) {
	calls := 0
	repo := stationRepo(sampleStations())
	findAll := repo.FindAllFunc
	repo.FindAllFunc = func(ctx context.Context) ([]domain.Station, error) {
		calls++
		return findAll(ctx)
	}
	cache := mocks.NewMockCache()
	svc := NewService(repo, &mocks.MockFavoriteRepository{}, cache, time.Minute, nil, nil, newTestLogger())

	_, err := svc.List(context.Background(), domain.StationFilter{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), domain.StationFilter{Query: "oak"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, cache.Has(allStationsKey))
}

func TestTypes(t *testing.T) {
	svc := NewService(stationRepo(sampleStations()), &mocks.MockFavoriteRepository{}, nil, 0, nil, nil, newTestLogger())

	types, err := svc.Types(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"DC Fast", "Level 2", "Tesla Supercharger"}, types)
}

func TestNearby(t *testing.T) {
	svc := NewService(stationRepo(sampleStations()), &mocks.MockFavoriteRepository{}, nil, 0, nil, nil, newTestLogger())

	got, err := svc.Nearby(context.Background(), 37.4419, -122.1430, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Palo Alto Level 2"}, names(got))

	_, err = svc.Nearby(context.Background(), 37.4419, -122.1430, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(stationRepo(sampleStations()), &mocks.MockFavoriteRepository{}, nil, 0, nil, nil, newTestLogger())

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ValidatesAndInvalidates(t *testing.T) {
	var saved *domain.Station
	repo := stationRepo(nil)
	repo.SaveFunc = func(ctx context.Context, station *domain.Station) error {
		saved = station
		return nil
	}
	cache := mocks.NewMockCache()
	require.NoError(t, cache.Set(context.Background(), allStationsKey, "[]", time.Minute))
	broadcaster := &mocks.MockBroadcaster{}
	svc := NewService(repo, &mocks.MockFavoriteRepository{}, cache, time.Minute, nil, broadcaster, newTestLogger())

	err := svc.Create(context.Background(), &domain.Station{Name: "Broken", Available: 5, Total: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, saved)

	err = svc.Create(context.Background(), &domain.Station{Name: " Fresno Hub ", Type: "DC Fast", Available: 2, Total: 2, Latitude: 36.73, Longitude: -119.78})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Fresno Hub", saved.Name)
	assert.False(t, cache.Has(allStationsKey))
	assert.Len(t, broadcaster.Stations, 1)
}

func TestAdjustAvailability_Propagates(t *testing.T) {
	repo := stationRepo(nil)
	repo.AdjustAvailabilityFunc = func(ctx context.Context, id string, delta int) (*domain.Station, error) {
		if id == "full" {
			return nil, domain.ErrConflict
		}
		return &domain.Station{ID: id, Name: "Hub", Available: 3 + delta, Total: 4}, nil
	}
	queue := mocks.NewMockMessageQueue()
	broadcaster := &mocks.MockBroadcaster{}
	svc := NewService(repo, &mocks.MockFavoriteRepository{}, mocks.NewMockCache(), time.Minute, queue, broadcaster, newTestLogger())

	station, err := svc.AdjustAvailability(context.Background(), "s1", -1)
	require.NoError(t, err)
	assert.Equal(t, 2, station.Available)
	require.Len(t, broadcaster.Stations, 1)
	assert.Equal(t, 2, broadcaster.Stations[0].Available)

	msgs := queue.GetPublishedMessages(ports.SubjectStationUpdated)
	require.Len(t, msgs, 1)
	var event domain.StationUpdatedEvent
	require.NoError(t, json.Unmarshal(msgs[0], &event))
	assert.Equal(t, "s1", event.StationID)
	assert.Equal(t, 2, event.Available)

	_, err = svc.AdjustAvailability(context.Background(), "full", -1)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFavorites(t *testing.T) {
	stations := sampleStations()
	favs := map[string]bool{}
	favRepo := &mocks.MockFavoriteRepository{
		AddFunc: func(ctx context.Context, fav *domain.Favorite) error {
			favs[fav.StationID] = true
			return nil
		},
		RemoveFunc: func(ctx context.Context, userID, stationID string) error {
			delete(favs, stationID)
			return nil
		},
		StationIDsFunc: func(ctx context.Context, userID string) ([]string, error) {
			ids := []string{}
			for id := range favs {
				ids = append(ids, id)
			}
			return ids, nil
		},
	}
	repo := stationRepo(stations)
	repo.FindByIDsFunc = func(ctx context.Context, ids []string) ([]domain.Station, error) {
		out := []domain.Station{}
		for _, s := range stations {
			for _, id := range ids {
				if s.ID == id {
					out = append(out, s)
				}
			}
		}
		return out, nil
	}
	svc := NewService(repo, favRepo, nil, 0, nil, nil, newTestLogger())
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, "u1", "s3"))
	require.NoError(t, svc.AddFavorite(ctx, "u1", "s1"))
	require.NoError(t, svc.AddFavorite(ctx, "u1", "s1"))
	assert.ErrorIs(t, svc.AddFavorite(ctx, "u1", "missing"), domain.ErrNotFound)

	got, err := svc.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mission Bay Supercharger", "Palo Alto Level 2"}, names(got))

	require.NoError(t, svc.RemoveFavorite(ctx, "u1", "s1"))
	got, err = svc.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Palo Alto Level 2"}, names(got))
}
