// Package services contém a lógica de negócio de registro, login e
// validação de JWT.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/jwt"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/password"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

// Erros de autenticação distinguidos no login. O chamador informa ao
// aluno qual das duas situações ocorreu: conta inexistente ou senha errada.
var (
	// ErrUnknownAccount indica que não existe usuário com o username informado.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrWrongPassword indica que a senha não confere com o hash gravado.
	ErrWrongPassword = errors.New("wrong password")
)

// UserRepository descreve o contrato de persistência de usuários.
type UserRepository interface {
	// EnsureUser grava o registro padrão caso ainda não exista.
	// Devolve true quando o registro foi criado nesta chamada.
	EnsureUser(ctx context.Context, user models.User) (bool, error)

	// GetUserByUsername devolve o usuário pelo username ou erro se não existir.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService cuida de registro, autenticação e validação de JWT.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	trialDays int
}

// NewAuthService cria um AuthService. trialDays define a duração do
// período de teste concedido a cada novo usuário.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, trialDays int) *AuthService {
	return &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		trialDays: trialDays,
	}
}

// Register cria o registro padrão do usuário: senha com hash, papel "user",
// assinatura em trial com prazo configurável e preferências vazias.
// A criação é idempotente — registrar um username já existente não altera
// o registro original. Devolve o UID e se o registro foi criado agora.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, bool, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", false, err
	}
	trialEndsAt := time.Now().UTC().AddDate(0, 0, s.trialDays)
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user",
		Subscription: models.Subscription{
			Status:      models.StatusTrial,
			TrialEndsAt: &trialEndsAt,
		},
		Preferences: models.Preferences{
			InterestedPrograms:   []string{},
			NotificationsEnabled: true,
		},
	}
	created, err := s.users.EnsureUser(ctx, user)
	if err != nil {
		return "", false, err
	}
	stored, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", false, err
	}
	return stored.UID, created, nil
}

// Login confere a senha do usuário e gera o JWT de acesso. Conta
// inexistente e senha errada saem como erros distintos (ErrUnknownAccount
// e ErrWrongPassword), para a resposta ao aluno dizer qual foi o caso.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrUnknownAccount
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrWrongPassword
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken confere o JWT e devolve a identidade embutida nele.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}
	return user, claims.Role, true, nil
}
