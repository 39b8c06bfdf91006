package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/motoshop/directory-api/internal/config"
	"github.com/motoshop/directory-api/internal/email"
	"github.com/motoshop/directory-api/internal/geocode"
	appointmentHandler "github.com/motoshop/directory-api/internal/handler/appointment"
	healthHandler "github.com/motoshop/directory-api/internal/handler/health"
	locationHandler "github.com/motoshop/directory-api/internal/handler/location"
	requestHandler "github.com/motoshop/directory-api/internal/handler/request"
	shopHandler "github.com/motoshop/directory-api/internal/handler/shop"
	"github.com/motoshop/directory-api/internal/location"
	"github.com/motoshop/directory-api/internal/middleware"
	"github.com/motoshop/directory-api/internal/repository/postgres"
	"github.com/motoshop/directory-api/internal/router"
	appointmentService "github.com/motoshop/directory-api/internal/service/appointment"
	"github.com/motoshop/directory-api/internal/service/matching"
	requestService "github.com/motoshop/directory-api/internal/service/request"
	shopService "github.com/motoshop/directory-api/internal/service/shop"
	"github.com/motoshop/directory-api/pkg/logger"
	"github.com/motoshop/directory-api/pkg/messaging"
	redisBroker "github.com/motoshop/directory-api/pkg/messaging/redis"
	"github.com/motoshop/directory-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Log)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Redis is optional: without it, sent-events are simply not published.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewBroker(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	} else {
		log.Warn().Msg("no Redis URL configured, event publishing disabled")
	}

	var sender email.Service
	if cfg.SMTP.Host != "" {
		sender = email.NewSMTPService(cfg.SMTP)
	} else {
		log.Warn().Msg("no SMTP host configured, outreach emails will not be transmitted")
	}

	shopRepo := postgres.NewShopRepository(db)
	requestRepo := postgres.NewServiceRequestRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	bikeRepo := postgres.NewBikeRepository(db)
	userRepo := postgres.NewUserRepository(db)

	geocoder := geocode.NewClient(cfg.Geocoder)
	resolver := location.NewResolver(nil, geocoder, location.DefaultTimeout)

	shopSvc := shopService.NewService(shopRepo)
	matchingSvc := matching.NewService(shopRepo)
	requestSvc := requestService.NewService(requestRepo, shopRepo, bikeRepo, userRepo, sender, broker)
	appointmentSvc := appointmentService.NewService(appointmentRepo, shopRepo, bikeRepo, broker)

	m := metrics.New("directory_api")
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth)

	routerCfg := router.Config{
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     middleware.DefaultCORSConfig(),
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(
		authMiddleware,
		m,
		healthHandler.NewHandler(db),
		shopHandler.NewHandler(shopSvc, matchingSvc),
		locationHandler.NewHandler(resolver),
		requestHandler.NewHandler(requestSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		routerCfg,
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
