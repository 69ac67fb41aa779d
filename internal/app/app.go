// Package app wires configuration, storage, services, and transport together
// and owns the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neighborly/portal-backend/internal/adapter/postgres"
	eventrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/event"
	facilityrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/facility"
	foodrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/food"
	greenrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/green"
	jobrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/job"
	lostfoundrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/lostfound"
	membershiprepo "github.com/neighborly/portal-backend/internal/adapter/postgres/membership"
	pickuprepo "github.com/neighborly/portal-backend/internal/adapter/postgres/pickup"
	pollrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/poll"
	problemrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/problem"
	profilerepo "github.com/neighborly/portal-backend/internal/adapter/postgres/profile"
	"github.com/neighborly/portal-backend/internal/auth"
	"github.com/neighborly/portal-backend/internal/config"
	communitysvc "github.com/neighborly/portal-backend/internal/service/community"
	directorysvc "github.com/neighborly/portal-backend/internal/service/directory"
	engagementsvc "github.com/neighborly/portal-backend/internal/service/engagement"
	eventsvc "github.com/neighborly/portal-backend/internal/service/event"
	foodsvc "github.com/neighborly/portal-backend/internal/service/food"
	greensvc "github.com/neighborly/portal-backend/internal/service/green"
	jobsvc "github.com/neighborly/portal-backend/internal/service/job"
	lostfoundsvc "github.com/neighborly/portal-backend/internal/service/lostfound"
	pickupsvc "github.com/neighborly/portal-backend/internal/service/pickup"
	pollsvc "github.com/neighborly/portal-backend/internal/service/poll"
	problemsvc "github.com/neighborly/portal-backend/internal/service/problem"
	"github.com/neighborly/portal-backend/internal/transport/middleware"
	"github.com/neighborly/portal-backend/internal/transport/rest"
)

// Run starts the portal backend and blocks until ctx is cancelled or the
// server fails. Shutdown is graceful within cfg.Server.ShutdownTimeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := NewLogger(cfg.Log)
	log.Info("starting portal backend", "version", BuildVersion())

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	authManager := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	memberships := membershiprepo.New(pool)
	polls := pollrepo.New(pool)
	events := eventrepo.New(pool)
	jobs := jobrepo.New(pool)
	facilities := facilityrepo.New(pool)
	problems := problemrepo.New(pool)
	food := foodrepo.New(pool)
	greens := greenrepo.New(pool)
	lostFound := lostfoundrepo.New(pool)
	pickups := pickuprepo.New(pool)
	profiles := profilerepo.New(pool)

	engagement := engagementsvc.NewService(log, memberships, polls, events, problems, jobs, profiles)
	pollSvc := pollsvc.NewService(log, polls, cfg.Portal.MaxPollOptions, cfg.Portal.ListLimit)
	eventSvc := eventsvc.NewService(log, events, cfg.Portal.ListLimit)
	jobSvc := jobsvc.NewService(log, jobs, cfg.Portal.ListLimit, cfg.Portal.MaxListLimit)
	directorySvc := directorysvc.NewService(log, facilities, cfg.Portal.ListLimit)
	problemSvc := problemsvc.NewService(log, problems, cfg.Portal.ListLimit)
	foodSvc := foodsvc.NewService(log, food, profiles, cfg.Portal.ListLimit)
	greenSvc := greensvc.NewService(log, greens, profiles, cfg.Portal.ListLimit)
	lostFoundSvc := lostfoundsvc.NewService(log, lostFound, cfg.Portal.ListLimit)
	pickupSvc := pickupsvc.NewService(log, pickups, cfg.Portal.PickupMinLeadTime)
	communitySvc := communitysvc.NewService(log, profiles, cfg.Portal.LeaderboardSize, cfg.Portal.ListLimit)

	handlers := rest.Handlers{
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
		Polls:     rest.NewPollHandler(pollSvc, engagement, log),
		Events:    rest.NewEventHandler(eventSvc, engagement, log),
		Jobs:      rest.NewJobHandler(jobSvc, engagement, log),
		Green:     rest.NewGreenHandler(greenSvc, engagement, log),
		Directory: rest.NewDirectoryHandler(directorySvc, engagement, log),
		Problems:  rest.NewProblemHandler(problemSvc, engagement, log),
		Food:      rest.NewFoodHandler(foodSvc, log),
		LostFound: rest.NewLostFoundHandler(lostFoundSvc, log),
		Pickups:   rest.NewPickupHandler(pickupSvc, log),
		Community: rest.NewCommunityHandler(communitySvc, log),
	}

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Auth(authManager),
	)(rest.NewRouter(handlers))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("portal backend stopped")
	return nil
}
