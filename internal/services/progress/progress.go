// Package services contém a lógica de negócio do acompanhamento de
// estudo: máquina de estados por (usuário, tópico), acúmulo de tempo por
// tick, respostas de exercícios e sequência de dias.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

// ProgressRepository define a persistência usada pelo serviço de progresso.
type ProgressRepository interface {
	// GetProgress devolve o registro de progresso de (usuário, tópico).
	GetProgress(ctx context.Context, userUID, topicID string) (*models.ProgressRecord, error)
	// StartProgress cria o registro em in_progress ou reanima a âncora do
	// registro existente. Devolve true quando o registro foi criado.
	StartProgress(ctx context.Context, rec models.ProgressRecord, now time.Time) (bool, error)
	// AccrueTick acumula o tempo decorrido desde a âncora, limitado a
	// maxSeconds, somente enquanto o registro está em in_progress.
	// Devolve os segundos efetivamente acumulados.
	AccrueTick(ctx context.Context, userUID, topicID string, now time.Time, maxSeconds, percentComplete int) (int, error)
	// CompleteProgress acumula o último intervalo e marca o registro
	// como completed com 100%.
	CompleteProgress(ctx context.Context, userUID, topicID string, now time.Time, maxSeconds int) (int, error)
	// ReopenProgress devolve um registro completed para in_progress.
	ReopenProgress(ctx context.Context, userUID, topicID string, now time.Time) error
	// ListProgressByUser devolve todos os registros do usuário.
	ListProgressByUser(ctx context.Context, userUID string) ([]*models.ProgressRecord, error)

	// AddStudySeconds espelha os segundos acumulados no total do usuário.
	AddStudySeconds(ctx context.Context, userUID string, seconds int) error
	// IncrementAnswerStats registra uma resposta nos contadores do usuário.
	IncrementAnswerStats(ctx context.Context, userUID string, wasCorrect bool, elapsedSeconds int) error
	// TouchStreak atualiza a sequência de dias consecutivos de estudo.
	TouchStreak(ctx context.Context, userUID string, now time.Time) (int, error)

	// GetTopic devolve o tópico do catálogo pelo ID.
	GetTopic(ctx context.Context, topicID string) (*models.CatalogTopic, error)
}

// Cache descreve o cache de perfis, invalidado quando as estatísticas mudam.
type Cache interface {
	Invalidate(key string) error
}

// ProgressService implementa os casos de uso do acompanhamento de estudo.
type ProgressService struct {
	repo       ProgressRepository
	cache      Cache
	log        *slog.Logger
	maxAccrual time.Duration
}

// NewProgressService cria um ProgressService. maxAccrual limita quanto
// tempo um único tick pode acumular, protegendo contra âncoras órfãs de
// sessões abandonadas.
func NewProgressService(repo ProgressRepository, cache Cache, log *slog.Logger, maxAccrual time.Duration) *ProgressService {
	return &ProgressService{
		repo:       repo,
		cache:      cache,
		log:        log,
		maxAccrual: maxAccrual,
	}
}

func (s *ProgressService) maxSeconds() int {
	return int(s.maxAccrual / time.Second)
}

func (s *ProgressService) invalidateProfile(userUID string) {
	if err := s.cache.Invalidate("profile:" + userUID); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("uid", userUID), sl.Err(err))
	}
}

// retryOnce executa a escrita e repete uma única vez em caso de falha.
func retryOnce(fn func() error) error {
	if err := fn(); err == nil {
		return nil
	}
	return fn()
}

// Start garante o registro de progresso do tópico em in_progress e
// reinicia a âncora do tick. Devolve true quando o registro foi criado
// nesta chamada (primeira visita ao tópico).
func (s *ProgressService) Start(ctx context.Context, userUID, topicID string) (bool, error) {
	now := time.Now().UTC()

	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return false, err
	}
	rec := models.ProgressRecord{
		UserUID:   userUID,
		TopicID:   topic.ID,
		ProgramID: topic.ProgramID,
		Level:     topic.Level,
		RoleID:    topic.RoleID,
	}

	var created bool
	err = retryOnce(func() error {
		var err error
		created, err = s.repo.StartProgress(ctx, rec, now)
		return err
	})
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("started topic progress",
			slog.String("uid", userUID), slog.String("topic", topic.ID))
	}

	if _, err := s.repo.TouchStreak(ctx, userUID, now); err != nil {
		s.log.Warn("failed to touch streak", slog.String("uid", userUID), sl.Err(err))
	} else {
		s.invalidateProfile(userUID)
	}
	return created, nil
}

// Tick acumula o tempo decorrido desde a última âncora no registro do
// tópico e espelha os segundos no total do usuário. Só acumula enquanto
// o registro está em in_progress; um tick após a conclusão é um no-op.
// Falhas de escrita são repetidas uma vez e depois engolidas com um
// aviso, sinalizadas em degraded — o fluxo de estudo nunca bloqueia por
// causa de uma métrica motivacional.
func (s *ProgressService) Tick(ctx context.Context, userUID, topicID string, percentComplete int) (accrued int, degraded bool, err error) {
	now := time.Now().UTC()

	err = retryOnce(func() error {
		var err error
		accrued, err = s.repo.AccrueTick(ctx, userUID, topicID, now, s.maxSeconds(), percentComplete)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// registro inexistente ou já concluído: acúmulo congelado
			return 0, false, nil
		}
		s.log.Warn("progress tick write failed, keeping local state",
			slog.String("uid", userUID), slog.String("topic", topicID), sl.Err(err))
		return 0, true, nil
	}

	if accrued > 0 {
		if err := s.repo.AddStudySeconds(ctx, userUID, accrued); err != nil {
			s.log.Warn("failed to mirror study seconds", slog.String("uid", userUID), sl.Err(err))
		}
		if _, err := s.repo.TouchStreak(ctx, userUID, now); err != nil {
			s.log.Warn("failed to touch streak", slog.String("uid", userUID), sl.Err(err))
		}
		s.invalidateProfile(userUID)
	}
	return accrued, false, nil
}

// Complete acumula o último intervalo e congela o registro em completed
// com 100%. Concluir um tópico já concluído é um no-op.
func (s *ProgressService) Complete(ctx context.Context, userUID, topicID string) error {
	now := time.Now().UTC()

	var accrued int
	err := retryOnce(func() error {
		var err error
		accrued, err = s.repo.CompleteProgress(ctx, userUID, topicID, now, s.maxSeconds())
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if accrued > 0 {
		if err := s.repo.AddStudySeconds(ctx, userUID, accrued); err != nil {
			s.log.Warn("failed to mirror study seconds", slog.String("uid", userUID), sl.Err(err))
		}
	}
	if _, err := s.repo.TouchStreak(ctx, userUID, now); err != nil {
		s.log.Warn("failed to touch streak", slog.String("uid", userUID), sl.Err(err))
	}
	s.invalidateProfile(userUID)
	s.log.Info("completed topic", slog.String("uid", userUID), slog.String("topic", topicID))
	return nil
}

// Reopen devolve um tópico concluído para in_progress, retomando o
// acúmulo de tempo com a âncora reiniciada.
func (s *ProgressService) Reopen(ctx context.Context, userUID, topicID string) error {
	now := time.Now().UTC()
	return retryOnce(func() error {
		return s.repo.ReopenProgress(ctx, userUID, topicID, now)
	})
}

// RecordAnswer registra uma resposta de exercício nos contadores
// agregados do usuário e atualiza a sequência de dias.
func (s *ProgressService) RecordAnswer(ctx context.Context, userUID string, wasCorrect bool, elapsedSeconds int) error {
	now := time.Now().UTC()
	err := retryOnce(func() error {
		return s.repo.IncrementAnswerStats(ctx, userUID, wasCorrect, elapsedSeconds)
	})
	if err != nil {
		return err
	}
	if _, err := s.repo.TouchStreak(ctx, userUID, now); err != nil {
		s.log.Warn("failed to touch streak", slog.String("uid", userUID), sl.Err(err))
	}
	s.invalidateProfile(userUID)
	return nil
}

// Get devolve o registro de progresso de (usuário, tópico).
func (s *ProgressService) Get(ctx context.Context, userUID, topicID string) (*models.ProgressRecord, error) {
	return s.repo.GetProgress(ctx, userUID, topicID)
}

// List devolve todos os registros de progresso do usuário.
func (s *ProgressService) List(ctx context.Context, userUID string) ([]*models.ProgressRecord, error) {
	return s.repo.ListProgressByUser(ctx, userUID)
}
