// Package tick implementa o handler HTTP do batimento periódico de
// estudo: acumula o tempo decorrido desde a última âncora do tópico.
package tick

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
)

// Request — posição de leitura reportada pelo cliente no batimento.
type Request struct {
	PercentComplete int `json:"percent_complete" validate:"min=0,max=100"`
}

// Service acumula o tempo de estudo de um tópico.
type Service interface {
	Tick(ctx context.Context, userUID, topicID string, percentComplete int) (int, bool, error)
}

// Handler atende o batimento de estudo.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New cria um Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Batimento de estudo
// @Description Acumula no registro do tópico o tempo decorrido desde a última âncora do servidor, limitado pelo teto por batimento. Um batimento após a conclusão não acumula nada. Falhas de escrita persistentes não bloqueiam: a resposta vem com degraded=true.
// @Tags Progress
// @Accept json
// @Produce json
// @Param topicID path string true "ID do tópico"
// @Param request body Request true "Posição de leitura"
// @Success 200 {object} map[string]any "Segundos acumulados"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 422 {object} response.ErrorResponse "Erro de validação"
// @Security BearerAuth
// @Router /topics/{topicID}/progress/tick [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.tick"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	topicID := chi.URLParam(r, "topicID")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	accrued, degraded, err := h.service.Tick(r.Context(), userUID, topicID, req.PercentComplete)
	if err != nil {
		log.Error("failed to process study tick", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process tick"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"topic_id":        topicID,
		"accrued_seconds": accrued,
		"degraded":        degraded,
	}))
}
