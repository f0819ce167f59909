package worker

// vencidas_cron.go
// Background goroutine that flips pending invoices past their due date to
// "vencida". Runs once on start and then every interval.

import (
	"context"
	"time"

	"facturas/internal/repository"

	"github.com/rs/zerolog/log"
)

func StartVencidasCron(ctx context.Context, repo repository.FacturaRepository, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("vencidas_cron: started")
		MarcarVencidas(ctx, repo, time.Now())

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencidas_cron: shutting down")
				return
			case now := <-ticker.C:
				MarcarVencidas(ctx, repo, now)
			}
		}
	}()
}

// MarcarVencidas runs one pass and returns how many invoices changed.
func MarcarVencidas(ctx context.Context, repo repository.FacturaRepository, now time.Time) int64 {
	n, err := repo.MarcarVencidas(ctx, now.UTC())
	if err != nil {
		log.Error().Err(err).Msg("vencidas_cron: failed to mark overdue invoices")
		return 0
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("vencidas_cron: invoices marked overdue")
	}
	return n
}
