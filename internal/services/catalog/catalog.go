// Package services contém a leitura do catálogo de tópicos com cache: o
// catálogo muda raramente (console administrativo), então as leituras
// ficam em cache por uma hora.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

const cacheTTL = time.Hour

// CatalogRepository define a persistência consultada pelo serviço.
type CatalogRepository interface {
	GetTopic(ctx context.Context, topicID string) (*models.CatalogTopic, error)
	ListTopicsByProgram(ctx context.Context, programID string) ([]*models.CatalogTopic, error)
	GetProgress(ctx context.Context, userUID, topicID string) (*models.ProgressRecord, error)
}

// Cache descreve o cache de leitura do catálogo.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// CatalogService serve o catálogo de tópicos aos handlers de leitura.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService cria um CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetTopic devolve o tópico pelo ID, preferindo o cache.
func (s *CatalogService) GetTopic(ctx context.Context, topicID string) (*models.CatalogTopic, error) {
	cacheKey := "topic:" + topicID
	var topic *models.CatalogTopic
	found, err := s.cache.Get(cacheKey, &topic)
	if err != nil {
		s.log.Warn("failed to read topic from cache", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if found {
		return topic, nil
	}

	topic, err = s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, topic, cacheTTL); err != nil {
		s.log.Warn("failed to cache topic", slog.String("key", cacheKey), sl.Err(err))
	}
	return topic, nil
}

// ListTopicsByProgram devolve os tópicos do programa, preferindo o cache.
func (s *CatalogService) ListTopicsByProgram(ctx context.Context, programID string) ([]*models.CatalogTopic, error) {
	cacheKey := "topics:" + programID
	var topics []*models.CatalogTopic
	found, err := s.cache.Get(cacheKey, &topics)
	if err != nil {
		s.log.Warn("failed to read topic list from cache", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if found {
		return topics, nil
	}

	topics, err = s.repo.ListTopicsByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, topics, cacheTTL); err != nil {
		s.log.Warn("failed to cache topic list", slog.String("key", cacheKey), sl.Err(err))
	}
	return topics, nil
}

// GetProgress devolve o progresso do usuário no tópico. Progresso nunca é
// cacheado: muda a cada batimento.
func (s *CatalogService) GetProgress(ctx context.Context, userUID, topicID string) (*models.ProgressRecord, error) {
	return s.repo.GetProgress(ctx, userUID, topicID)
}
