package reservations

import (
	"context"
	"time"

	"cinetix/internal/shared/config"
	"cinetix/pkg/logger"
)

// Reaper releases lapsed holds in the background. The claim path also
// sweeps per showtime, so the reaper is a safety net for showtimes nobody
// is booking.
type Reaper struct {
	service  Service
	interval time.Duration
	done     chan struct{}
}

func NewReaper(service Service, cfg config.ReservationConfig) *Reaper {
	return &Reaper{
		service:  service,
		interval: cfg.ReaperInterval,
		done:     make(chan struct{}),
	}
}

// Start runs the reaper loop until Stop is called or ctx is cancelled.
func (rp *Reaper) Start(ctx context.Context) {
	go rp.run(ctx)
	logger.Info("reservation hold reaper started", "interval", rp.interval.String())
}

func (rp *Reaper) Stop() {
	close(rp.done)
	logger.Info("reservation hold reaper stopped")
}

func (rp *Reaper) run(ctx context.Context) {
	ticker := time.NewTicker(rp.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rp.tick(ctx)
		case <-rp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (rp *Reaper) tick(ctx context.Context) {
	count, err := rp.service.ExpireStaleHolds(ctx)
	if err != nil {
		logger.Error("failed to expire stale holds", "error", err)
		return
	}
	if count > 0 {
		logger.Info("released expired holds", "count", count)
	}
}
