package subscription

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	args := m.Called(ctx, userUID, sub)
	return args.Error(0)
}

func newRequest(t *testing.T, userUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/admin/users/"+userUID+"/subscription", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userUID", userUID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSubscriptionHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "activates a monthly plan",
			body: `{"status":"active","plan":"monthly","expires_at":"2026-09-30T00:00:00Z"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(sub models.Subscription) bool {
					return sub.Status == models.StatusActive && sub.Plan != nil && *sub.Plan == models.PlanMonthly
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"active"`,
		},
		{
			name: "expires a subscription without a plan",
			body: `{"status":"expired"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(sub models.Subscription) bool {
					return sub.Status == models.StatusExpired && sub.Plan == nil
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"expired"`,
		},
		{
			name:           "rejects unknown status",
			body:           `{"status":"lifetime"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Status`,
		},
		{
			name: "unknown user",
			body: `{"status":"active","plan":"annual"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateSubscription", mock.Anything, "uid-1", mock.Anything).
					Return(repository.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user record not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(t, "uid-1", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
