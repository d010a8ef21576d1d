// Package middlewarectx contém os middlewares HTTP da API: validação de
// JWT com provisionamento do registro do usuário, decisão de acesso no
// contexto, limite de requisições e porta administrativa.
//
// JWTMiddleware valida o token do cabeçalho Authorization no serviço de
// autenticação, garante o registro padrão do usuário e injeta username,
// papel e UID no contexto da requisição.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	authpb "github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/gen"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
)

// Key tipo para as chaves de contexto da requisição.
type Key string

const (
	// User é a chave do username no contexto.
	User Key = "username"
	// Role é a chave do papel no contexto.
	Role Key = "role"
	// UserUID é a chave do UID no contexto.
	UserUID Key = "useruid"
	// Decision é a chave da decisão de acesso no contexto.
	Decision Key = "decision"
)

// Service valida o JWT no serviço de autenticação.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*authpb.ValidateTokenResponse, error)
}

// Provisioner garante o registro padrão do usuário a cada autenticação
// validada, gravado com o UID vindo do token.
type Provisioner interface {
	EnsureDefault(ctx context.Context, userUID, email, username string) (bool, error)
}

// JWTMiddleware valida o JWT do cabeçalho Authorization.
//
// Com o token válido, garante o registro do usuário (idempotente) e
// adiciona username, papel e UID ao contexto; caso contrário responde
// 401 Unauthorized.
func JWTMiddleware(authClient Service, provisioner Provisioner, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			resp, err := authClient.ValidateToken(r.Context(), tokenStr)
			if err != nil || !resp.Valid {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			// registro garantido a cada autenticação validada, não só na
			// primeira, e sempre sob o UID do token
			if _, err := provisioner.EnsureDefault(r.Context(), resp.Useruid, "", resp.Username); err != nil {
				log.Warn("failed to ensure user record", slog.String("username", resp.Username), sl.Err(err))
			}

			ctx := context.WithValue(r.Context(), User, resp.Username)
			ctx = context.WithValue(ctx, Role, resp.Role)
			ctx = context.WithValue(ctx, UserUID, resp.Useruid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
