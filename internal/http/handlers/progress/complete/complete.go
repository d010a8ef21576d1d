// Package complete implementa o handler HTTP que marca um tópico como
// concluído, congelando o acúmulo de tempo.
package complete

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
)

// Service conclui o progresso em um tópico.
type Service interface {
	Complete(ctx context.Context, userUID, topicID string) error
}

// Handler atende a conclusão de um tópico.
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
// @Summary Conclui um tópico
// @Description Acumula o último intervalo e congela o registro em completed com 100%. Concluir de novo é um no-op.
// @Tags Progress
// @Produce json
// @Param topicID path string true "ID do tópico"
// @Success 200 {object} response.Response "Tópico concluído"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /topics/{topicID}/progress/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.complete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	topicID := chi.URLParam(r, "topicID")

	if err := h.service.Complete(r.Context(), userUID, topicID); err != nil {
		log.Error("failed to complete topic", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not complete topic"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"topic_id": topicID,
	}))
}
