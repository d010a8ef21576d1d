// Package list implementa o handler HTTP de listagem dos tópicos de um
// programa de concurso, na ordem do edital.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// Service lista o catálogo de tópicos.
type Service interface {
	ListTopicsByProgram(ctx context.Context, programID string) ([]*models.CatalogTopic, error)
}

// Handler atende a listagem de tópicos por programa.
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
// @Summary Tópicos de um programa
// @Description Lista os tópicos do programa na ordem do edital, com a marcação de amostra gratuita.
// @Tags Topic
// @Produce json
// @Param programID path string true "ID do programa"
// @Success 200 {object} map[string]any "Tópicos do programa"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /programs/{programID}/topics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topic.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	programID := chi.URLParam(r, "programID")

	topics, err := h.service.ListTopicsByProgram(r.Context(), programID)
	if err != nil {
		log.Error("failed to list topics", slog.String("program", programID), sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list topics"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"program_id": programID,
		"topics":     topics,
	}))
}
