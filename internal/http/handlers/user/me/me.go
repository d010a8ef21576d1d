// Package me implementa o handler HTTP do perfil do aluno autenticado:
// registro completo mais a decisão de acesso calculada no momento.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

// Service carrega o perfil com a decisão de acesso.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, models.AccessDecision, error)
}

// Handler atende a leitura do perfil do aluno autenticado.
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

// ServeHTTP godoc
// @Summary Perfil do aluno
// @Description Devolve o registro do aluno autenticado e a decisão de acesso atual.
// @Tags User
// @Produce json
// @Success 200 {object} map[string]any "Perfil com decisão de acesso"
// @Failure 404 {object} response.ErrorResponse "Registro não provisionado"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /users/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	user, decision, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("user record not provisioned", slog.String("uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user record not found"))
			return
		}
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load profile"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":          user,
		"access":        decision,
		"total_minutes": user.Stats.TotalMinutes(),
	}))
}
