// Package list implementa o handler HTTP que lista todos os registros
// de progresso do aluno autenticado.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// Service lista o progresso do aluno.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.ProgressRecord, error)
}

// Handler atende a listagem de progresso.
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
// @Summary Progresso do aluno
// @Description Lista todos os registros de progresso do aluno autenticado, por tópico.
// @Tags Progress
// @Produce json
// @Success 200 {object} map[string]any "Registros de progresso"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /progress [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	records, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list progress", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list progress"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"progress": records,
	}))
}
