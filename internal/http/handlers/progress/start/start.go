// Package start implementa o handler HTTP que inicia (ou retoma) o
// progresso do aluno em um tópico.
package start

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

// Service inicia o progresso em um tópico.
type Service interface {
	Start(ctx context.Context, userUID, topicID string) (bool, error)
}

// Handler atende o início de estudo de um tópico.
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
// @Summary Inicia o estudo de um tópico
// @Description Cria o registro de progresso em in_progress ou reinicia a âncora de tempo do registro existente.
// @Tags Progress
// @Produce json
// @Param topicID path string true "ID do tópico"
// @Success 200 {object} map[string]any "Registro iniciado"
// @Failure 404 {object} response.ErrorResponse "Tópico não encontrado"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /topics/{topicID}/progress/start [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.start"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	topicID := chi.URLParam(r, "topicID")

	created, err := h.service.Start(r.Context(), userUID, topicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("topic not found"))
			return
		}
		log.Error("failed to start topic progress", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not start progress"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"topic_id": topicID,
		"created":  created,
	}))
}
