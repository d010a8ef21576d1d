// Package preferences implementa o handler HTTP de atualização das
// preferências de estudo do aluno.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

// Request — preferências enviadas pelo aluno. A lista de programas é
// ordenada por prioridade de interesse.
type Request struct {
	InterestedPrograms   []string `json:"interested_programs" validate:"required"`
	DailyGoalMinutes     int      `json:"daily_goal_minutes" validate:"min=0"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
}

// Service atualiza as preferências do aluno.
type Service interface {
	UpdatePreferences(ctx context.Context, userUID string, prefs models.Preferences) error
}

// Handler atende a atualização de preferências.
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
// @Summary Atualiza preferências de estudo
// @Description Sobrescreve programas de interesse, meta diária e aviso por e-mail.
// @Tags User
// @Accept json
// @Produce json
// @Param request body Request true "Preferências de estudo"
// @Success 200 {object} map[string]any "Preferências atualizadas"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 422 {object} response.ErrorResponse "Erro de validação"
// @Failure 404 {object} response.ErrorResponse "Registro não encontrado"
// @Security BearerAuth
// @Router /users/me/preferences [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.preferences"

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

	prefs := models.Preferences{
		InterestedPrograms:   req.InterestedPrograms,
		DailyGoalMinutes:     req.DailyGoalMinutes,
		NotificationsEnabled: req.NotificationsEnabled,
	}
	if err := h.service.UpdatePreferences(r.Context(), userUID, prefs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user record not found"))
			return
		}
		log.Error("failed to update preferences", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update preferences"))
		return
	}

	log.Info("preferences updated", slog.String("uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"preferences": prefs,
	}))
}
