package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/jwt"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/password"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	services "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/auth"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) EnsureUser(ctx context.Context, user models.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, role, useruid string) (string, error) {
	args := m.Called(username, role, useruid)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		username    string
		password    string
		setupMocks  func(r *UserRepoMock)
		wantUserUID string
		wantCreated bool
		wantErr     bool
		errMsg      string
	}{
		{
			name:     "successful registration",
			email:    "aluno@example.com",
			username: "aluno1",
			password: "senha12345",
			setupMocks: func(r *UserRepoMock) {
				r.On("EnsureUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "aluno@example.com" &&
						user.Username == "aluno1" &&
						user.PasswordHash != "" &&
						user.Role == "user" &&
						user.Subscription.Status == models.StatusTrial &&
						user.Subscription.TrialEndsAt != nil &&
						user.Preferences.NotificationsEnabled
				})).Return(true, nil).Once()
				r.On("GetUserByUsername", mock.Anything, "aluno1").
					Return(&models.User{UID: "uid-123", Username: "aluno1"}, nil).Once()
			},
			wantUserUID: "uid-123",
			wantCreated: true,
			wantErr:     false,
		},
		{
			name:     "existing username is not overwritten",
			email:    "outro@example.com",
			username: "aluno1",
			password: "senha12345",
			setupMocks: func(r *UserRepoMock) {
				r.On("EnsureUser", mock.Anything, mock.Anything).Return(false, nil).Once()
				r.On("GetUserByUsername", mock.Anything, "aluno1").
					Return(&models.User{UID: "uid-123", Username: "aluno1"}, nil).Once()
			},
			wantUserUID: "uid-123",
			wantCreated: false,
			wantErr:     false,
		},
		{
			name:     "repository error",
			email:    "aluno@example.com",
			username: "aluno1",
			password: "senha12345",
			setupMocks: func(r *UserRepoMock) {
				r.On("EnsureUser", mock.Anything, mock.Anything).Return(false, errors.New("db error")).Once()
			},
			wantUserUID: "",
			wantCreated: false,
			wantErr:     true,
			errMsg:      "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock, 7)

			tt.setupMocks(repo)

			got, created, err := svc.Register(context.Background(), tt.email, tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
				assert.Equal(t, tt.wantCreated, created)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_TrialWindow(t *testing.T) {
	repo := new(UserRepoMock)
	jwtMock := new(JwtMakerMock)
	svc := services.NewAuthService(repo, jwtMock, 7)

	var captured models.User
	repo.On("EnsureUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(models.User)
		}).Return(true, nil).Once()
	repo.On("GetUserByUsername", mock.Anything, "aluno1").
		Return(&models.User{UID: "uid-123"}, nil).Once()

	before := time.Now().UTC()
	_, _, err := svc.Register(context.Background(), "aluno@example.com", "aluno1", "senha12345")
	after := time.Now().UTC()

	assert.NoError(t, err)
	if assert.NotNil(t, captured.Subscription.TrialEndsAt) {
		assert.False(t, captured.Subscription.TrialEndsAt.Before(before.AddDate(0, 0, 7)))
		assert.False(t, captured.Subscription.TrialEndsAt.After(after.AddDate(0, 0, 7)))
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "senhacorreta"

	hashedPassword, err := password.GetHash(rawPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	testUser := &models.User{
		UID:          "uid-123",
		Email:        "aluno@example.com",
		Username:     "aluno1",
		PasswordHash: hashedPassword,
		Role:         "user",
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantRole   string
		wantErr    bool
		wantErrIs  error
		errMsg     string
	}{
		{
			name:     "successful login",
			username: "aluno1",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "aluno1").Return(testUser, nil).Once()
				j.On("GenerateToken", "aluno1", "user", "uid-123").Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
			wantRole:  "user",
			wantErr:   false,
		},
		{
			name:     "unknown account",
			username: "fantasma",
			password: "senha",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "fantasma").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr:   true,
			wantErrIs: services.ErrUnknownAccount,
		},
		{
			name:     "wrong password",
			username: "aluno1",
			password: "senhaerrada",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "aluno1").Return(testUser, nil).Once()
			},
			wantErr:   true,
			wantErrIs: services.ErrWrongPassword,
		},
		{
			name:     "repository failure is not classified",
			username: "aluno1",
			password: "senha",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "aluno1").Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errMsg:  "db error",
		},
		{
			name:     "token generation error",
			username: "aluno1",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "aluno1").Return(testUser, nil).Once()
				j.On("GenerateToken", "aluno1", "user", "uid-123").Return("", errors.New("token error")).Once()
			},
			wantErr: true,
			errMsg:  "token error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock, 7)

			tt.setupMocks(repo, jwtMock)

			token, role, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.wantRole, role)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	validClaims := &customjwt.CustomClaims{
		Username: "aluno1",
		Role:     "user",
		UserUID:  "uid-123",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	tests := []struct {
		name       string
		token      string
		setupMocks func(j *JwtMakerMock)
		wantUser   *models.User
		wantRole   string
		wantValid  bool
		wantErr    bool
		errMsg     string
	}{
		{
			name:  "valid token",
			token: "valid-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").Return(validClaims, nil).Once()
			},
			wantUser: &models.User{
				Username: "aluno1",
				Role:     "user",
				UID:      "uid-123",
			},
			wantRole:  "user",
			wantValid: true,
			wantErr:   false,
		},
		{
			name:  "invalid token",
			token: "invalid-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "invalid-token").Return(nil, errors.New("invalid token")).Once()
			},
			wantUser:  nil,
			wantRole:  "",
			wantValid: false,
			wantErr:   true,
			errMsg:    "invalid token",
		},
		{
			name:  "expired token",
			token: "expired-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "expired-token").Return(nil, errors.New("token expired")).Once()
			},
			wantUser:  nil,
			wantRole:  "",
			wantValid: false,
			wantErr:   true,
			errMsg:    "token expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock, 7)

			tt.setupMocks(jwtMock)

			user, role, valid, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantRole, role)
			assert.Equal(t, tt.wantValid, valid)

			jwtMock.AssertExpectations(t)
		})
	}
}
