// Package users implementa o handler HTTP administrativo de listagem de
// usuários com paginação.
package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

const defaultLimit = 50

// Service lista os usuários da plataforma.
type Service interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// Handler atende a listagem administrativa de usuários.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New cria um Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// ServeHTTP godoc
// @Summary Lista usuários (admin)
// @Description Lista os usuários da plataforma com paginação por limit e offset.
// @Tags Admin
// @Produce json
// @Param limit query int false "Máximo de registros (padrão 50)"
// @Param offset query int false "Deslocamento (padrão 0)"
// @Success 200 {object} map[string]any "Usuários"
// @Failure 403 {object} response.ErrorResponse "Acesso negado"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.users"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := queryInt(r, "limit", defaultLimit)
	offset := queryInt(r, "offset", 0)

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	}))
}
