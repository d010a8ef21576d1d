// Package client implementa o cliente gRPC do serviço de autenticação,
// usado pela API HTTP para validar tokens e encaminhar registro e login.
package client

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	authpb "github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/gen"
)

// AuthClient encapsula a conexão com o serviço de autenticação.
type AuthClient struct {
	conn   *grpc.ClientConn
	client authpb.AuthServiceClient
}

// NewAuthClient abre a conexão com o serviço de autenticação.
func NewAuthClient(addr string) (*AuthClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock())
	if err != nil {
		return nil, err
	}

	c := authpb.NewAuthServiceClient(conn)
	return &AuthClient{conn: conn, client: c}, nil
}

// Close encerra a conexão.
func (a *AuthClient) Close() error {
	return a.conn.Close()
}

// Register encaminha o registro do usuário.
func (a *AuthClient) Register(ctx context.Context, email, username, password string) (*authpb.RegisterResponse, error) {
	return a.client.Register(ctx, &authpb.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
}

// Login encaminha a autenticação do usuário.
func (a *AuthClient) Login(ctx context.Context, username, password string) (*authpb.LoginResponse, error) {
	return a.client.Login(ctx, &authpb.LoginRequest{
		Username: username,
		Password: password,
	})
}

// ValidateToken valida o JWT no serviço de autenticação.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (*authpb.ValidateTokenResponse, error) {
	return a.client.ValidateToken(ctx, &authpb.ValidateTokenRequest{
		Token: token,
	})
}
