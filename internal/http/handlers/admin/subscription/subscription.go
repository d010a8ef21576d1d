// Package subscription implementa o handler HTTP administrativo que
// sobrescreve a assinatura de um usuário. A mudança invalida o cache de
// perfil e é publicada para os assinantes em tempo real.
package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

// Request — novo snapshot da assinatura do usuário.
type Request struct {
	Status      string     `json:"status" validate:"required,oneof=trial active expired cancelled"`
	Plan        *string    `json:"plan,omitempty" validate:"omitempty,oneof=monthly annual"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Service atualiza assinaturas.
type Service interface {
	UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error
}

// Handler atende a atualização administrativa de assinatura.
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
// @Summary Atualiza assinatura (admin)
// @Description Sobrescreve o snapshot de assinatura do usuário. O efeito no acesso é imediato: o cache de perfil é invalidado e a decisão é recalculada na próxima leitura.
// @Tags Admin
// @Accept json
// @Produce json
// @Param userUID path string true "UID do usuário"
// @Param request body Request true "Novo snapshot da assinatura"
// @Success 200 {object} map[string]any "Assinatura atualizada"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 404 {object} response.ErrorResponse "Usuário não encontrado"
// @Failure 422 {object} response.ErrorResponse "Erro de validação"
// @Security BearerAuth
// @Router /admin/users/{userUID}/subscription [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subscription"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "userUID")

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

	sub := models.Subscription{
		Status:      req.Status,
		Plan:        req.Plan,
		TrialEndsAt: req.TrialEndsAt,
		ExpiresAt:   req.ExpiresAt,
	}
	if err := h.service.UpdateSubscription(r.Context(), userUID, sub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user record not found"))
			return
		}
		log.Error("failed to update subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update subscription"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid":     userUID,
		"subscription": sub,
	}))
}
