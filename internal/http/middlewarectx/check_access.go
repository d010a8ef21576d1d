package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// ProfileServiceInterface carrega o perfil com a decisão de acesso calculada.
type ProfileServiceInterface interface {
	Profile(ctx context.Context, userUID string) (*models.User, models.AccessDecision, error)
}

// AccessDecisionMiddleware calcula a decisão de acesso do usuário e a
// injeta no contexto. Nunca bloqueia a requisição: assinatura expirada
// ainda dá direito às prévias, então quem decide o que servir é o
// handler de conteúdo.
func AccessDecisionMiddleware(log *slog.Logger, profileService ProfileServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			_, decision, err := profileService.Profile(r.Context(), userUID)
			if err != nil {
				log.Error("failed to compute access decision", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), Decision, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
