// Package answer implementa o handler HTTP que registra uma resposta de
// exercício nos contadores agregados do aluno.
package answer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
)

// Request — resultado de um exercício respondido.
type Request struct {
	WasCorrect     bool `json:"was_correct"`
	ElapsedSeconds int  `json:"elapsed_seconds" validate:"min=0"`
}

// Service registra respostas de exercícios.
type Service interface {
	RecordAnswer(ctx context.Context, userUID string, wasCorrect bool, elapsedSeconds int) error
}

// Handler atende o registro de respostas.
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
// @Summary Registra resposta de exercício
// @Description Incrementa os contadores de questões do aluno. Acertos nunca superam o total respondido.
// @Tags Progress
// @Accept json
// @Produce json
// @Param request body Request true "Resultado da resposta"
// @Success 200 {object} response.Response "Resposta registrada"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 422 {object} response.ErrorResponse "Erro de validação"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /progress/answers [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.answer"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

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

	if err := h.service.RecordAnswer(r.Context(), userUID, req.WasCorrect, req.ElapsedSeconds); err != nil {
		log.Error("failed to record answer", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not record answer"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"was_correct": req.WasCorrect,
	}))
}
