package booking

import (
	"context"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
)

type Expirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Sweeper periodically cancels pending bookings that were never paid.
type Sweeper struct {
	bookings Expirer
	interval time.Duration
}

func NewSweeper(bookings Expirer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{bookings: bookings, interval: interval}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	logger.Info("booking sweeper started", "interval", s.interval.String())

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			logger.Info("booking sweeper stopped")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.bookings.ExpireStale(ctx)
	if err != nil {
		logger.Error("stale booking sweep failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("stale bookings expired", "count", n)
	}
}
