package coordenada

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/config"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/content"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/client"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/access/watch"
	adminsubscription "github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/admin/subscription"
	adminusers "github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/admin/users"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/auth/login"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/auth/register"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/health"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/progress/answer"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/progress/complete"
	progresslist "github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/progress/list"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/progress/reopen"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/progress/start"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/progress/tick"
	topiclist "github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/topic/list"
	topicread "github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/topic/read"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/user/me"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/handlers/user/preferences"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/realtime"
	catalogservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/catalog"
	progressservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/progress"
	userservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/user"
)

// RegisterRoutes registra todas as rotas da API.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authClient *client.AuthClient, userService *userservice.UserService,
	progressService *progressservice.ProgressService, catalogService *catalogservice.CatalogService,
	store content.Store, feed *realtime.Feed) {
	// Middlewares globais
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Rotas abertas
		r.Post("/register", register.New(logger, authClient).ServeHTTP)
		r.Post("/login", login.New(logger, authClient).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Grupo autenticado por JWT
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authClient, userService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Use(middlewarectx.AccessDecisionMiddleware(logger, userService))

			r.Get("/users/me", me.New(logger, userService).ServeHTTP)
			r.Put("/users/me/preferences", preferences.New(logger, userService).ServeHTTP)

			r.Get("/programs/{programID}/topics", topiclist.New(logger, catalogService).ServeHTTP)
			r.Get("/topics/{topicID}", topicread.New(logger, catalogService, store).ServeHTTP)

			r.Post("/topics/{topicID}/progress/start", start.New(logger, progressService).ServeHTTP)
			r.Post("/topics/{topicID}/progress/tick", tick.New(logger, progressService).ServeHTTP)
			r.Post("/topics/{topicID}/progress/complete", complete.New(logger, progressService).ServeHTTP)
			r.Post("/topics/{topicID}/progress/reopen", reopen.New(logger, progressService).ServeHTTP)
			r.Post("/progress/answers", answer.New(logger, progressService).ServeHTTP)
			r.Get("/progress", progresslist.New(logger, progressService).ServeHTTP)

			r.Get("/access/watch", watch.New(logger, feed).ServeHTTP)

			// Grupo administrativo
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger, cfg))
				r.Get("/admin/users", adminusers.New(logger, userService).ServeHTTP)
				r.Put("/admin/users/{userUID}/subscription", adminsubscription.New(logger, userService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
