// Command cleanup closes polls past their expiry, expires stale food
// donations, and purges finished donations older than the configured
// retention window. It is intended to be invoked by an external cron job,
// not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/neighborly/portal-backend/internal/adapter/postgres"
	foodrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/food"
	pollrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/poll"
	"github.com/neighborly/portal-backend/internal/app"
	"github.com/neighborly/portal-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	now := time.Now()

	polls := pollrepo.New(pool)
	food := foodrepo.New(pool)

	// Finished donations are kept for cfg.Portal.DonationRetention after
	// creation, then removed for good.
	cutoff := now.Add(-cfg.Portal.DonationRetention)

	// All sweeps run in one transaction so a crash cannot leave retention
	// half-applied.
	var closed, expired, purged int64
	txm := postgres.NewTxManager(pool)
	err = txm.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if closed, err = polls.ExpireOlderThan(ctx, now); err != nil {
			return err
		}
		if expired, err = food.ExpireStaleDonations(ctx, now); err != nil {
			return err
		}
		purged, err = food.PurgeFinishedDonations(ctx, cutoff)
		return err
	})
	if err != nil {
		logger.Error("retention sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("cleanup completed",
		slog.Int64("polls_closed", closed),
		slog.Int64("donations_expired", expired),
		slog.Int64("donations_purged", purged),
		slog.Time("as_of", now),
	)
}
