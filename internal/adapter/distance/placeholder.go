package distance

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

const (
	placeholderMinMiles  = 50
	placeholderSpanMiles = 500
)

// Placeholder derives a stable pseudo-random distance in [50, 550) miles from
// the two place names. It stands in for a routing provider in development.
type Placeholder struct{}

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (p *Placeholder) Distance(ctx context.Context, origin, destination string) (float64, error) {
	o := normalize(origin)
	d := normalize(destination)
	if o == "" {
		return 0, domain.NewInvalidInput("start_location", "is required")
	}
	if d == "" {
		return 0, domain.NewInvalidInput("destination", "is required")
	}

	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(o)))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(d)))

	// tenths of a mile
	tenths := h.Sum64() % (placeholderSpanMiles * 10)
	return placeholderMinMiles + float64(tenths)/10, nil
}

// normalize collapses whitespace so cache keys and hashes are consistent.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
