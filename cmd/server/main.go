package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sameshi/cache"
	"sameshi/catalog"
	"sameshi/config"
	"sameshi/database"
	"sameshi/handlers"
	"sameshi/places"
	"sameshi/selection"
	"sameshi/session"
	"sameshi/worker"
)

// main loads the catalog once, wires the session store and nearby finder,
// and serves the API until interrupted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var kv cache.Store = cache.NewMemory()
	var redisPing handlers.Pinger
	if cfg.RedisURL != "" {
		rc, err := cache.NewClient(cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rc.Close()
		kv = rc
		redisPing = rc
	}

	store, err := loadCatalog(ctx, cfg, kv, logger)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	policy, err := selection.ByName(cfg.SelectionPolicy)
	if err != nil {
		logger.Fatal("invalid selection policy", zap.Error(err))
	}

	var finder *places.Finder
	if cfg.NearbyEnabled() {
		finder = places.NewFinder(
			places.NewClient(cfg.MapsAPIKey, cfg.HTTPTimeout),
			logger.Named("places"),
			places.WithKeywords(cfg.PlacesKeywords...),
			places.WithRadius(cfg.PlacesRadius),
			places.WithMinRating(cfg.PlacesMinRating),
			places.WithLanguage(cfg.PlacesLanguage),
			places.WithPhotoKey(cfg.MapsAPIKey),
			places.WithConcurrency(cfg.PlacesConcurrent),
		)
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, nearby search disabled")
	}

	sessions := session.NewStore(kv, cfg.SessionTTL)
	mux := handlers.NewMux(store, sessions, finder, policy, redisPing, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(handlers.RequestLogger(logger, mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("policy", policy.Name()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Env == "development" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// loadCatalog reads the configured source (through the cache for remote
// sources), optionally geocodes facilities without coordinates, and freezes
// the result.
func loadCatalog(ctx context.Context, cfg config.Config, kv cache.Store, logger *zap.Logger) (*catalog.Store, error) {
	var src catalog.Source
	switch cfg.CatalogSource {
	case "fixture":
		src = catalog.FixtureSource{Path: cfg.FixturePath}
	case "sheets":
		src = catalog.NewSheetsSource(cfg.SheetID, cfg.SheetsAPIKey, cfg.SheetsToken)
	case "postgres":
		db, err := database.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		src = database.TableSource{DB: db}
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}

	if cfg.CatalogSource != "fixture" && cfg.CatalogCacheTTL > 0 {
		src = catalog.CachedSource{Inner: src, Cache: kv, TTL: cfg.CatalogCacheTTL, Logger: logger}
	}

	data, err := catalog.Load(ctx, src, logger.Named("catalog"))
	if err != nil {
		return nil, err
	}

	if cfg.GeocodeMissing && cfg.MapsAPIKey != "" {
		data.Facilities = worker.ResolveCoordinates(ctx, data.Facilities, worker.NewGoogleGeocoder(cfg.MapsAPIKey), logger.Named("geocode"))
	}

	return catalog.New(data), nil
}
