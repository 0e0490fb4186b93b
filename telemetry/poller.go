package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval matches the dashboard refresh period.
const DefaultInterval = 5 * time.Minute

// Poller fetches from a Source immediately and then on every interval,
// delivering valid snapshots on its channel. Failed or invalid fetches are
// logged and skipped; the consumer keeps whatever it had.
type Poller struct {
	source   Source
	interval time.Duration
	logger   zerolog.Logger
	out      chan Snapshot
}

// NewPoller creates a poller. A non-positive interval uses DefaultInterval.
func NewPoller(source Source, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		logger:   logger,
		out:      make(chan Snapshot, 1),
	}
}

// Snapshots returns the delivery channel. It is closed when Run returns.
func (p *Poller) Snapshots() <-chan Snapshot {
	return p.out
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.out)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap, err := p.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error().Err(err).Msg("error fetching telemetry")
		}
		return
	}
	if err := snap.Validate(); err != nil {
		p.logger.Warn().Err(err).Msg("dropping invalid telemetry snapshot")
		return
	}

	// Latest wins: replace an undelivered snapshot rather than block.
	select {
	case p.out <- snap:
		return
	default:
	}
	select {
	case <-p.out:
	default:
	}
	select {
	case p.out <- snap:
	case <-ctx.Done():
	}
}
