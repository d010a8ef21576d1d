// Package server implementa o servidor gRPC do serviço de autenticação.
//
// AuthServer atende registro, login e validação de JWT, delegando a
// lógica de negócio ao AuthService.
package server

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	authpb "github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/gen"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	authservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/auth"
)

// AuthServiceInterface define as operações de negócio atendidas pelo servidor.
type AuthServiceInterface interface {
	Register(ctx context.Context, email, username, password string) (string, bool, error)
	Login(ctx context.Context, username, password string) (string, string, error)
	ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error)
}

// AuthServer implementa o serviço gRPC de autenticação.
type AuthServer struct {
	authpb.UnimplementedAuthServiceServer
	authService AuthServiceInterface
	log         *slog.Logger
}

// NewAuthServer cria um AuthServer.
func NewAuthServer(authService AuthServiceInterface, logger *slog.Logger) *AuthServer {
	return &AuthServer{
		authService: authService,
		log:         logger,
	}
}

// Register cria o registro padrão do usuário. A operação é idempotente:
// registrar um username já existente devolve o registro original.
func (s *AuthServer) Register(ctx context.Context, req *authpb.RegisterRequest) (*authpb.RegisterResponse, error) {
	s.log.Info("Register request", slog.String("username", req.Username))

	useruid, created, err := s.authService.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		s.log.Error("Register failed",
			slog.String("username", req.Username),
			slog.Any("error", err),
		)
		return nil, status.Errorf(codes.Internal, "registration failed: %v", err)
	}
	return &authpb.RegisterResponse{
		Success: true,
		Created: created,
		Useruid: useruid,
		Message: "user record ensured",
	}, nil
}

// Login confere as credenciais e gera o JWT. Conta inexistente e senha
// errada saem com códigos e mensagens distintos.
func (s *AuthServer) Login(ctx context.Context, req *authpb.LoginRequest) (*authpb.LoginResponse, error) {
	s.log.Info("Login request", slog.String("username", req.Username))

	token, role, err := s.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.log.Error("Login failed",
			slog.String("username", req.Username),
			slog.Any("error", err),
		)
		switch {
		case errors.Is(err, authservice.ErrUnknownAccount):
			return nil, status.Error(codes.NotFound, "unknown account")
		case errors.Is(err, authservice.ErrWrongPassword):
			return nil, status.Error(codes.Unauthenticated, "wrong password")
		default:
			return nil, status.Error(codes.Internal, "login failed")
		}
	}

	return &authpb.LoginResponse{
		Token: token,
		Role:  role,
	}, nil
}

// ValidateToken confere o JWT e devolve a identidade embutida nele.
func (s *AuthServer) ValidateToken(ctx context.Context, req *authpb.ValidateTokenRequest) (*authpb.ValidateTokenResponse, error) {
	s.log.Info("ValidateToken request")

	user, role, valid, err := s.authService.ValidateToken(ctx, req.Token)
	if err != nil || !valid {
		s.log.Error("Invalid token", slog.Any("error", err))
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return &authpb.ValidateTokenResponse{
		Username: user.Username,
		Role:     role,
		Valid:    valid,
		Useruid:  user.UID,
	}, nil
}
