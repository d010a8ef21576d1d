package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindTrialsExpiringToday(ctx context.Context) ([]*models.UserInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserInfo), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_runFindTrialsExpiringToday(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockRepository)
	}{
		{
			name: "no expiring trials",
			setupMocks: func(r *MockRepository) {
				r.On("FindTrialsExpiringToday", mock.Anything).Return([]*models.UserInfo{}, nil).Once()
			},
		},
		{
			name: "repository error is logged, not returned",
			setupMocks: func(r *MockRepository) {
				r.On("FindTrialsExpiringToday", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewSchedulerService(repo, newNoopLogger())

			tt.setupMocks(repo)

			service.runFindTrialsExpiringToday(context.Background(), nil)

			repo.AssertExpectations(t)
		})
	}
}

func TestSchedulerService_NewSchedulerService(t *testing.T) {
	repo := new(MockRepository)
	logger := newNoopLogger()

	service := NewSchedulerService(repo, logger)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.repo)
	assert.Equal(t, logger, service.log)
}
