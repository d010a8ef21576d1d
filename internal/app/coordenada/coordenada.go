// Package coordenada monta e executa a API HTTP da plataforma de estudo:
// banco, cache, bucket de conteúdo, cliente do serviço de autenticação e
// os serviços de perfil e progresso.
package coordenada

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/cache"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/config"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/content"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/client"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/migrations"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/realtime"
	catalogservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/catalog"
	progressservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/progress"
	userservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/user"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	store  *content.BucketStore
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}
	feed := realtime.NewFeed(cacheRedis.Db)

	store, err := content.NewBucketStore(ctx, cfg.ContentBucket)
	if err != nil {
		return nil, err
	}

	authClient, err := client.NewAuthClient(cfg.GRPCAuthAddress)
	if err != nil {
		return nil, err
	}

	userService := userservice.NewUserService(db, cacheRedis, feed, logger, cfg.TrialDays)
	progressService := progressservice.NewProgressService(db, cacheRedis, logger, cfg.TickMaxAccrual)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authClient, userService, progressService, catalogService, store, feed)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		store:  store,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.store.Close(); closeErr != nil {
			a.logger.Error("failed to close content store", sl.Err(closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
