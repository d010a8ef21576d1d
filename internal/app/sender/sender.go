// Package sender monta e executa o worker que consome a fila de
// notificações e envia os e-mails de aviso de fim de trial.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/config"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/rabbitmq"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/smtp"
	senderservice "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "notification.trial-expiring", a.senderService.SendTrialExpiringNotice)
	if err != nil {
		a.logger.Error("failed to start trial-expiring consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
