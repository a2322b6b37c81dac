// Package janitor runs periodic housekeeping for stores that cannot expire
// records on their own.
package janitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultInterval = time.Minute

// Purger removes expired records and reports how many it dropped.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Janitor calls PurgeExpired on a fixed interval until its context ends.
type Janitor struct {
	name     string
	purger   Purger
	interval time.Duration
	log      zerolog.Logger
}

// New returns a Janitor for purger. If interval <= 0, defaultInterval is used.
func New(name string, purger Purger, interval time.Duration, log zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Janitor{name: name, purger: purger, interval: interval, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	go j.run(ctx)
}

func (j *Janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.log.Error().Err(err).Str("store", j.name).Msg("purge failed")
		return
	}
	if removed > 0 {
		j.log.Debug().Str("store", j.name).Int("removed", removed).Msg("expired records purged")
	}
}
