package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/config"
	"github.com/iliyamo/homebase-finder/internal/geo"
	"github.com/iliyamo/homebase-finder/internal/handler"
	"github.com/iliyamo/homebase-finder/internal/middleware"
	"github.com/iliyamo/homebase-finder/internal/repository"
	"github.com/iliyamo/homebase-finder/internal/router"
	"github.com/iliyamo/homebase-finder/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	rdb, err := connectRedis(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}
	store, err := openStore(cfg, rdb)
	if err != nil {
		return err
	}
	defer store.Close()

	geoData := geo.Empty()
	var resolver *geo.Resolver
	if cfg.GeoDataDir != "" {
		if geoData, err = geo.Load(cfg.GeoDataDir); err != nil {
			return err
		}
		resolver = geo.NewResolver(geoData)
		r, p, c, b := geoData.Counts()
		logger.Info("geo data loaded", zap.Int("regions", r), zap.Int("provinces", p), zap.Int("cities", c), zap.Int("barangays", b))
	}

	listings := repository.NewBoardinghouseRepo(store)
	users := repository.NewUserRepo(store)
	profiles := repository.NewProfileRepo(store)
	tokens := repository.NewTokenRepo(store)
	activity := repository.NewActivityRepo(store)

	var recorder service.ActivityRecorder = service.NewDirectRecorder(activity, logger)
	if cfg.EventsEnabled {
		recorder = service.NewAMQPRecorder(cfg.RabbitMQURL, recorder, logger)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(e, store)
	router.RegisterAuth(e,
		handler.NewAuthHandler(cfg, users, profiles, tokens, logger),
		&handler.AccountHandler{
			Users:    users,
			Profiles: profiles,
			Accounts: service.NewAccountService(listings, users, profiles, tokens, activity, logger),
			Recorder: recorder,
			Log:      logger,
		},
		users,
		cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
	)
	router.RegisterPublic(e, handler.NewPublicHandler(service.NewBrowseService(listings), logger))
	router.RegisterGeo(e, handler.NewGeoHandler(geoData), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterOwner(e, handler.NewOwnerHandler(
		listings,
		service.NewDashboardService(listings, activity),
		resolver,
		recorder,
		logger,
	), users, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("storage", cfg.StorageBackend))

	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
