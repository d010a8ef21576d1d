// Package auth monta e executa o serviço gRPC de autenticação.
package auth

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/config"
	authpb "github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/gen"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/server"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/jwt"
	authservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/auth"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

type App struct {
	grpcServer *grpc.Server
	listener   net.Listener
	logger     *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker, cfg.TrialDays)

	lis, err := net.Listen("tcp", cfg.GRPCAuthAddress)
	if err != nil {
		return nil, err
	}

	grpcServer := grpc.NewServer()
	authpb.RegisterAuthServiceServer(grpcServer, server.NewAuthServer(authService, logger))

	return &App{
		grpcServer: grpcServer,
		listener:   lis,
		logger:     logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("auth gRPC service listening on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	select {
	case <-ctx.Done():
		a.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
