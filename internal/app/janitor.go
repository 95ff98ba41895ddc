package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/core"
)

// Janitor periodically reaps rooms that stood empty past the configured
// threshold. The room core only exposes the hook; scheduling is an
// operational policy that lives here.
type Janitor struct {
	Rooms     *core.Registry
	IdleAfter time.Duration
	Interval  time.Duration
}

func (j *Janitor) Run(ctx context.Context) {
	if j.IdleAfter <= 0 || j.Interval <= 0 {
		log.Info().Str("module", "app.janitor").Msg("idle sweep disabled")
		return
	}
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if reaped := j.Rooms.DestroyIdle(j.IdleAfter); len(reaped) > 0 {
				log.Info().Str("module", "app.janitor").Int("count", len(reaped)).Msg("reaped idle rooms")
			}
		}
	}
}
