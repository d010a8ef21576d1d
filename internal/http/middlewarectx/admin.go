package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
)

// AdminChecker confere a lista de administradores da configuração.
type AdminChecker interface {
	IsAdmin(username string) bool
}

// AdminOnlyMiddleware libera a rota apenas para administradores: papel
// "admin" no token e username presente na lista explícita da configuração.
func AdminOnlyMiddleware(log *slog.Logger, checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, _ := r.Context().Value(User).(string)
			role, _ := r.Context().Value(Role).(string)

			if role != "admin" || !checker.IsAdmin(username) {
				log.Warn("admin access denied", slog.String("username", username), slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
