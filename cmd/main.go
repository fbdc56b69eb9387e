package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/natal/internal/adapters/ephemeris"
	"github.com/okian/natal/internal/adapters/geocode"
	"github.com/okian/natal/internal/adapters/http/api"
	"github.com/okian/natal/internal/adapters/http/swagger"
	"github.com/okian/natal/internal/adapters/idempotency"
	"github.com/okian/natal/internal/adapters/repository"
	app "github.com/okian/natal/internal/app"
	"github.com/okian/natal/internal/config"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(context.Background(), "natal server exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		log.Warn(ctx, "invalid log_format; keeping text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
	}
	log = logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	handler, err := newHandler(ctx, cfg, svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
	return nil
}

// buildService wires the ephemeris, snapshot store, idempotency keeper and
// geocoder selected by cfg into a service that has not been started.
func buildService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	log := logger.Get()

	eph := ephemeris.New()
	if err := eph.Configure(cfg.EphemerisPath); err != nil {
		// Missing series degrade precision but do not stop the service.
		log.Warn(ctx, "ephemeris series unavailable; using mean elements where missing",
			logger.String("path", cfg.EphemerisPath), logger.Error(err))
	}
	log.Info(ctx, "ephemeris configured",
		logger.String("mode", eph.Mode()), logger.Int("series", eph.Loaded()))

	store, err := repository.Open(ctx, repository.Settings{
		Backend:     cfg.StoreBackend,
		Dir:         cfg.StoreDir,
		PostgresDSN: cfg.PostgresDSN,
		RedisAddr:   cfg.RedisAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	log.Info(ctx, "snapshot store opened", logger.String("backend", cfg.StoreBackend))

	keeper, err := idempotency.NewLRUKeeper(idempotency.WithMaxSize(cfg.IdempotencySize))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("idempotency keeper: %w", err)
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithKeeper(keeper),
		app.WithHouseSystem(astro.HouseSystem(strings.ToUpper(cfg.HouseSystem))),
		app.WithBatchWorkers(cfg.BatchWorkers),
		app.WithMaxBatchSize(cfg.MaxBatchSize),
		app.WithTopRoles(cfg.TopRoles),
		app.WithTopTags(cfg.TopTags),
	}
	if cfg.GeocodeURL != "" {
		opts = append(opts, app.WithGeocoder(geocode.New(cfg.GeocodeURL,
			geocode.WithTimeout(time.Duration(cfg.GeocodeTimeoutMS)*time.Millisecond),
			geocode.WithUserAgent(cfg.GeocodeUserAgent),
		)))
	}
	return app.New(eph, opts...), nil
}

// newHandler registers the API and docs routes.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) (http.Handler, error) {
	mux := http.NewServeMux()

	if err := swagger.Register(ctx, mux); err != nil {
		return nil, fmt.Errorf("register docs: %w", err)
	}

	var opts []api.ServerOption
	if cfg.RateLimitRPS > 0 {
		opts = append(opts, api.WithRateLimiter(api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	}
	api.NewServer(svc, svc, opts...).Register(ctx, mux)

	return api.Recover(mux), nil
}
