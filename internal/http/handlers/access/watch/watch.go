// Package watch implementa o handler SSE que transmite a decisão de
// acesso do aluno em tempo real: um evento inicial com a decisão atual e
// um evento a cada mudança de assinatura publicada no feed.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/entitlement"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// Feed assina as mudanças de assinatura de um usuário.
type Feed interface {
	SubscribeSubscriptionChanges(ctx context.Context, userUID string) (<-chan models.Subscription, func(), error)
}

// Handler atende o stream de decisões de acesso.
type Handler struct {
	log  *slog.Logger
	feed Feed
}

// New cria um Handler.
func New(log *slog.Logger, feed Feed) *Handler {
	return &Handler{
		log:  log,
		feed: feed,
	}
}

func writeDecision(w http.ResponseWriter, flusher http.Flusher, decision models.AccessDecision) error {
	payload, err := json.Marshal(decision)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: access\ndata: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// ServeHTTP godoc
// @Summary Stream da decisão de acesso
// @Description Abre um stream SSE com a decisão de acesso atual e reenvia a decisão recalculada a cada mudança de assinatura. A inscrição termina com a conexão.
// @Tags Access
// @Produce text/event-stream
// @Success 200 {string} string "Eventos access com a decisão em JSON"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Security BearerAuth
// @Router /access/watch [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.watch"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	decision, _ := r.Context().Value(middlewarectx.Decision).(models.AccessDecision)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// O stream vive além do WriteTimeout do servidor; sem limpar o prazo
	// de escrita da conexão, o primeiro Fprintf após o timeout derruba o SSE.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Warn("failed to clear write deadline", sl.Err(err))
	}

	updates, unsubscribe, err := h.feed.SubscribeSubscriptionChanges(r.Context(), userUID)
	if err != nil {
		log.Error("failed to subscribe to subscription feed", sl.Err(err))
		http.Error(w, "could not open access stream", http.StatusInternalServerError)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// decisão vigente primeiro, para a tela não abrir vazia
	if err := writeDecision(w, flusher, decision); err != nil {
		log.Warn("failed to write initial access event", sl.Err(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case sub, ok := <-updates:
			if !ok {
				return
			}
			next := entitlement.Evaluate(sub, time.Now().UTC())
			if err := writeDecision(w, flusher, next); err != nil {
				log.Warn("failed to write access event", sl.Err(err))
				return
			}
		}
	}
}
