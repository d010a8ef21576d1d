// Package reopen implementa o handler HTTP que devolve um tópico
// concluído para in_progress, retomando o acúmulo de tempo.
package reopen

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

// Service reabre o progresso em um tópico.
type Service interface {
	Reopen(ctx context.Context, userUID, topicID string) error
}

// Handler atende a reabertura de um tópico.
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
// @Summary Reabre um tópico concluído
// @Description Devolve o registro para in_progress com a âncora de tempo reiniciada.
// @Tags Progress
// @Produce json
// @Param topicID path string true "ID do tópico"
// @Success 200 {object} response.Response "Tópico reaberto"
// @Failure 404 {object} response.ErrorResponse "Registro não encontrado"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /topics/{topicID}/progress/reopen [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.reopen"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	topicID := chi.URLParam(r, "topicID")

	if err := h.service.Reopen(r.Context(), userUID, topicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("progress record not found"))
			return
		}
		log.Error("failed to reopen topic", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reopen topic"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"topic_id": topicID,
	}))
}
