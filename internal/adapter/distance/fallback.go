package distance

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Fallback asks primary first and answers from secondary when primary is unavailable.
// Invalid input from primary is returned as is.
type Fallback struct {
	primary   ports.DistanceSource
	secondary ports.DistanceSource
	log       *zap.Logger
}

func NewFallback(primary, secondary ports.DistanceSource, log *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, log: log}
}

func (f *Fallback) Distance(ctx context.Context, origin, destination string) (float64, error) {
	miles, err := f.primary.Distance(ctx, origin, destination)
	if err == nil {
		return miles, nil
	}
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}

	f.log.Warn("Primary distance source failed, using fallback", zap.Error(err))
	return f.secondary.Distance(ctx, origin, destination)
}
