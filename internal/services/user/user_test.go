package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	services "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/user"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) EnsureUser(ctx context.Context, user models.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	args := m.Called(ctx, userUID, sub)
	return args.Error(0)
}

func (m *UserRepoMock) UpdatePreferences(ctx context.Context, userUID string, prefs models.Preferences) error {
	args := m.Called(ctx, userUID, prefs)
	return args.Error(0)
}

func (m *UserRepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if fn, ok := args.Get(0).(func(any) bool); ok {
		return fn(result), args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishSubscriptionChange(ctx context.Context, userUID string, sub models.Subscription) error {
	args := m.Called(ctx, userUID, sub)
	return args.Error(0)
}

func newTestService(repo *UserRepoMock, cache *CacheMock, pub *PublisherMock) *services.UserService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewUserService(repo, cache, pub, log, 7)
}

func TestUserService_EnsureDefault(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(r *UserRepoMock)
		wantCreated bool
		wantErr     bool
	}{
		{
			name: "first auth event provisions defaults under the token uid",
			setupMocks: func(r *UserRepoMock) {
				r.On("EnsureUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.UID == "uid-123" &&
						u.Username == "aluno1" &&
						u.Role == "user" &&
						u.Subscription.Status == models.StatusTrial &&
						u.Subscription.TrialEndsAt != nil &&
						u.Preferences.NotificationsEnabled &&
						len(u.Preferences.InterestedPrograms) == 0
				})).Return(true, nil).Once()
			},
			wantCreated: true,
		},
		{
			name: "repeated auth event keeps existing record",
			setupMocks: func(r *UserRepoMock) {
				r.On("EnsureUser", mock.Anything, mock.Anything).Return(false, nil).Once()
			},
			wantCreated: false,
		},
		{
			name: "repository error",
			setupMocks: func(r *UserRepoMock) {
				r.On("EnsureUser", mock.Anything, mock.Anything).Return(false, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := newTestService(repo, new(CacheMock), new(PublisherMock))

			tt.setupMocks(repo)

			created, err := svc.EnsureDefault(context.Background(), "uid-123", "aluno@example.com", "aluno1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCreated, created)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Profile_CacheMiss(t *testing.T) {
	expires := time.Now().UTC().Add(30 * 24 * time.Hour)
	plan := models.PlanMonthly
	stored := &models.User{
		UID:      "uid-123",
		Username: "aluno1",
		Subscription: models.Subscription{
			Status:    models.StatusActive,
			Plan:      &plan,
			ExpiresAt: &expires,
		},
	}

	repo := new(UserRepoMock)
	cache := new(CacheMock)
	svc := newTestService(repo, cache, new(PublisherMock))

	cache.On("Get", "profile:uid-123", mock.Anything).Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "uid-123").Return(stored, nil).Once()
	cache.On("Set", "profile:uid-123", stored, time.Hour).Return(nil).Once()

	user, decision, err := svc.Profile(context.Background(), "uid-123")
	assert.NoError(t, err)
	assert.Equal(t, stored, user)
	assert.True(t, decision.CanAccessFullContent)
	assert.False(t, decision.IsPreviewOnly)
	assert.Equal(t, models.StatusActive, decision.Status)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUserService_Profile_CacheHit(t *testing.T) {
	repo := new(UserRepoMock)
	cache := new(CacheMock)
	svc := newTestService(repo, cache, new(PublisherMock))

	cache.On("Get", "profile:uid-123", mock.Anything).
		Return(func(result any) bool {
			ptr := result.(**models.User)
			*ptr = &models.User{
				UID:          "uid-123",
				Username:     "aluno1",
				Subscription: models.Subscription{Status: models.StatusExpired},
			}
			return true
		}, nil).Once()

	user, decision, err := svc.Profile(context.Background(), "uid-123")
	assert.NoError(t, err)
	assert.Equal(t, "aluno1", user.Username)
	assert.False(t, decision.CanAccessFullContent)
	assert.True(t, decision.IsPreviewOnly)

	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestUserService_Profile_RepoError(t *testing.T) {
	repo := new(UserRepoMock)
	cache := new(CacheMock)
	svc := newTestService(repo, cache, new(PublisherMock))

	cache.On("Get", "profile:uid-404", mock.Anything).Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "uid-404").Return(nil, errors.New("record not found")).Once()

	_, _, err := svc.Profile(context.Background(), "uid-404")
	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestUserService_UpdatePreferences(t *testing.T) {
	prefs := models.Preferences{
		InterestedPrograms: []string{"policia-federal", "receita"},
		DailyGoalMinutes:   45,
	}

	repo := new(UserRepoMock)
	cache := new(CacheMock)
	svc := newTestService(repo, cache, new(PublisherMock))

	repo.On("UpdatePreferences", mock.Anything, "uid-123", prefs).Return(nil).Once()
	cache.On("Invalidate", "profile:uid-123").Return(nil).Once()

	assert.NoError(t, svc.UpdatePreferences(context.Background(), "uid-123", prefs))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUserService_UpdateSubscription_PublishesChange(t *testing.T) {
	plan := models.PlanAnnual
	sub := models.Subscription{Status: models.StatusActive, Plan: &plan}

	repo := new(UserRepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)
	svc := newTestService(repo, cache, pub)

	repo.On("UpdateSubscription", mock.Anything, "uid-123", sub).Return(nil).Once()
	cache.On("Invalidate", "profile:uid-123").Return(nil).Once()
	pub.On("PublishSubscriptionChange", mock.Anything, "uid-123", sub).Return(nil).Once()

	assert.NoError(t, svc.UpdateSubscription(context.Background(), "uid-123", sub))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestUserService_UpdateSubscription_RepoErrorSkipsPublish(t *testing.T) {
	repo := new(UserRepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)
	svc := newTestService(repo, cache, pub)

	repo.On("UpdateSubscription", mock.Anything, "uid-123", mock.Anything).
		Return(errors.New("db error")).Once()

	err := svc.UpdateSubscription(context.Background(), "uid-123", models.Subscription{Status: models.StatusActive})
	assert.Error(t, err)
	pub.AssertNotCalled(t, "PublishSubscriptionChange", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ListUsers(t *testing.T) {
	want := []*models.User{{UID: "a"}, {UID: "b"}}

	repo := new(UserRepoMock)
	svc := newTestService(repo, new(CacheMock), new(PublisherMock))
	repo.On("ListUsers", mock.Anything, 10, 0).Return(want, nil).Once()

	got, err := svc.ListUsers(context.Background(), 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}
