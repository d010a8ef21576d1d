// Package read implementa o handler HTTP de leitura de um tópico do
// edital: carrega o corpo do repositório de conteúdo estático, aplica a
// porta de conteúdo sobre a decisão de acesso do contexto e junta o
// progresso do aluno no tópico.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/content"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/contentgate"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

// Service descreve o catálogo e o progresso consultados pelo handler.
type Service interface {
	GetTopic(ctx context.Context, topicID string) (*models.CatalogTopic, error)
	GetProgress(ctx context.Context, userUID, topicID string) (*models.ProgressRecord, error)
}

// topicMeta são os metadados opcionais do tópico no repositório de
// conteúdo. Preview, quando presente, é a prévia editorial exibida a
// quem não tem acesso completo.
type topicMeta struct {
	Preview          string `json:"preview"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// Handler atende a leitura de um tópico.
type Handler struct {
	log     *slog.Logger
	service Service
	store   content.Store
}

// New cria um Handler.
func New(log *slog.Logger, service Service, store content.Store) *Handler {
	return &Handler{
		log:     log,
		service: service,
		store:   store,
	}
}

// ServeHTTP godoc
// @Summary Leitura de tópico
// @Description Devolve o corpo do tópico conforme a decisão de acesso: completo, prévia editorial ou prévia truncada com convite de assinatura.
// @Tags Topic
// @Produce json
// @Param topicID path string true "ID do tópico"
// @Success 200 {object} models.TopicView "Tópico com corpo e progresso"
// @Failure 404 {object} response.ErrorResponse "Tópico não encontrado"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /topics/{topicID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topic.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	decision, _ := r.Context().Value(middlewarectx.Decision).(models.AccessDecision)
	topicID := chi.URLParam(r, "topicID")

	topic, err := h.service.GetTopic(r.Context(), topicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("topic not found"))
			return
		}
		log.Error("failed to read topic", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read topic"))
		return
	}

	fullBody, err := h.store.FetchText(r.Context(), topic.ContentPath)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			log.Error("topic body missing in content store", slog.String("topic", topicID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("topic content not found"))
			return
		}
		log.Error("failed to fetch topic body", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not fetch topic content"))
		return
	}

	// metadados são opcionais; sem eles a prévia cai no truncamento
	var meta topicMeta
	if err := h.store.FetchJSON(r.Context(), topic.ContentPath, &meta); err != nil && !errors.Is(err, content.ErrNotFound) {
		log.Warn("failed to fetch topic metadata", sl.Err(err))
	}

	body, isFull, showUpsell := contentgate.ResolveView(topic.IsPreview, decision, fullBody, meta.Preview)

	progressStatus := models.ProgressNotStarted
	var progress *models.ProgressRecord
	rec, err := h.service.GetProgress(r.Context(), userUID, topicID)
	switch {
	case err == nil:
		progress = rec
		progressStatus = rec.Status
	case errors.Is(err, repository.ErrNotFound):
	default:
		log.Warn("failed to read topic progress", sl.Err(err))
	}

	render.JSON(w, r, response.StatusOKWithData(models.TopicView{
		Topic:          *topic,
		Body:           body,
		IsFullBody:     isFull,
		ShowUpsell:     showUpsell,
		ProgressStatus: progressStatus,
		Progress:       progress,
	}))
}
