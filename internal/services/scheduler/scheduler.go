// Package services implementa a varredura diária de trials que expiram
// hoje, publicando um aviso por usuário no exchange de notificações.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/rabbitmq"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// UserRepository lista os usuários alvo das notificações.
type UserRepository interface {
	FindTrialsExpiringToday(ctx context.Context) ([]*models.UserInfo, error)
}

// SchedulerService varre os trials que expiram hoje e publica os avisos.
type SchedulerService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewSchedulerService cria um SchedulerService.
func NewSchedulerService(repo UserRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindTrialsExpiringToday roda a varredura imediatamente e depois a cada
// 24 horas, até o contexto terminar.
func (s *SchedulerService) FindTrialsExpiringToday(ctx context.Context, channel *amqp.Channel) {
	s.runFindTrialsExpiringToday(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindTrialsExpiringToday(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindTrialsExpiringToday(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting scan for trials expiring today")
	users, err := s.repo.FindTrialsExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring trials", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring trials found")
		return
	}
	s.log.Info("found expiring trials", "count", len(users))
	for _, user := range users {
		err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange, "trial-expiring", user)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
