// Package services contém a lógica de negócio de perfil do usuário:
// provisionamento idempotente, leitura com decisão de acesso calculada,
// preferências e operações administrativas de assinatura.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/entitlement"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// UserRepository define os métodos de persistência usados pelo serviço.
type UserRepository interface {
	// EnsureUser grava o registro padrão caso ainda não exista.
	EnsureUser(ctx context.Context, user models.User) (bool, error)
	// GetUser devolve o usuário pelo UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByUsername devolve o usuário pelo username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateSubscription sobrescreve os campos de assinatura.
	UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error
	// UpdatePreferences sobrescreve as preferências de estudo.
	UpdatePreferences(ctx context.Context, userUID string, prefs models.Preferences) error
	// ListUsers devolve os usuários com paginação.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// Cache descreve o cache de leitura de perfis.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SubscriptionPublisher publica o novo snapshot de assinatura para os
// assinantes em tempo real do usuário.
type SubscriptionPublisher interface {
	PublishSubscriptionChange(ctx context.Context, userUID string, sub models.Subscription) error
}

// UserService implementa perfil, preferências e administração de assinaturas.
type UserService struct {
	repo      UserRepository
	cache     Cache
	publisher SubscriptionPublisher
	log       *slog.Logger
	trialDays int
}

// NewUserService cria um UserService.
func NewUserService(repo UserRepository, cache Cache, publisher SubscriptionPublisher, log *slog.Logger, trialDays int) *UserService {
	return &UserService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		trialDays: trialDays,
	}
}

func profileKey(userUID string) string {
	return fmt.Sprintf("profile:%s", userUID)
}

// EnsureDefault garante o registro padrão do usuário a partir de um evento
// de autenticação: trial com prazo configurável, papel "user", preferências
// vazias. O registro é gravado com o UID do token, para as leituras por UID
// enxergarem o usuário recém-provisionado. Chamadas repetidas (ou
// concorrentes) não alteram o registro já existente. Devolve true quando o
// registro foi criado nesta chamada.
func (s *UserService) EnsureDefault(ctx context.Context, userUID, email, username string) (bool, error) {
	if email == "" {
		// identidade validada sem e-mail conhecido (token antigo ou
		// provedor externo): registra um endereço pendente por username
		email = username + "@pendente.local"
	}
	trialEndsAt := time.Now().UTC().AddDate(0, 0, s.trialDays)
	user := models.User{
		UID:      userUID,
		Email:    email,
		Username: username,
		Role:     "user",
		Subscription: models.Subscription{
			Status:      models.StatusTrial,
			TrialEndsAt: &trialEndsAt,
		},
		Preferences: models.Preferences{
			InterestedPrograms:   []string{},
			NotificationsEnabled: true,
		},
	}
	created, err := s.repo.EnsureUser(ctx, user)
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("provisioned default user record", slog.String("username", username), slog.String("uid", userUID))
	}
	return created, nil
}

// Profile devolve o usuário e a decisão de acesso calculada agora.
// A decisão nunca é cacheada: ela é função do relógio e do snapshot da
// assinatura, então é recalculada a cada leitura.
func (s *UserService) Profile(ctx context.Context, userUID string) (*models.User, models.AccessDecision, error) {
	var user *models.User
	cacheKey := profileKey(userUID)
	found, err := s.cache.Get(cacheKey, &user)
	if err != nil {
		s.log.Warn("failed to read profile from cache", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if !found {
		user, err = s.repo.GetUser(ctx, userUID)
		if err != nil {
			return nil, models.AccessDecision{}, err
		}
		if err := s.cache.Set(cacheKey, user, time.Hour); err != nil {
			s.log.Warn("failed to cache profile", slog.String("key", cacheKey), sl.Err(err))
		}
	}

	decision := entitlement.Evaluate(user.Subscription, time.Now().UTC())
	return user, decision, nil
}

// UpdatePreferences sobrescreve as preferências de estudo e invalida o
// cache do perfil.
func (s *UserService) UpdatePreferences(ctx context.Context, userUID string, prefs models.Preferences) error {
	if err := s.repo.UpdatePreferences(ctx, userUID, prefs); err != nil {
		return err
	}
	if err := s.cache.Invalidate(profileKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("uid", userUID), sl.Err(err))
	}
	return nil
}

// UpdateSubscription sobrescreve a assinatura do usuário (operação
// administrativa), invalida o cache do perfil e publica o novo snapshot
// para os assinantes em tempo real.
func (s *UserService) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	if err := s.repo.UpdateSubscription(ctx, userUID, sub); err != nil {
		return err
	}
	if err := s.cache.Invalidate(profileKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("uid", userUID), sl.Err(err))
	}
	if err := s.publisher.PublishSubscriptionChange(ctx, userUID, sub); err != nil {
		s.log.Warn("failed to publish subscription change", slog.String("uid", userUID), sl.Err(err))
	}
	s.log.Info("updated subscription", slog.String("uid", userUID), slog.String("status", sub.Status))
	return nil
}

// ListUsers devolve os usuários com paginação, para o console administrativo.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}
