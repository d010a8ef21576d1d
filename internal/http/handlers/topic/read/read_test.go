package read

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

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/content"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/middlewarectx"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/storage/repository"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetTopic(ctx context.Context, topicID string) (*models.CatalogTopic, error) {
	args := m.Called(ctx, topicID)
	if res := args.Get(0); res != nil {
		return res.(*models.CatalogTopic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) GetProgress(ctx context.Context, userUID, topicID string) (*models.ProgressRecord, error) {
	args := m.Called(ctx, userUID, topicID)
	if res := args.Get(0); res != nil {
		return res.(*models.ProgressRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FetchText(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockStore) FetchJSON(ctx context.Context, path string, v any) error {
	args := m.Called(ctx, path, v)
	if fn, ok := args.Get(0).(func(any)); ok {
		fn(v)
		return args.Error(1)
	}
	return args.Error(1)
}

func newRequest(t *testing.T, topicID string, decision models.AccessDecision) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/topics/"+topicID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("topicID", topicID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
	ctx = context.WithValue(ctx, middlewarectx.Decision, decision)
	return req.WithContext(ctx)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fullAccess := models.AccessDecision{CanAccessFullContent: true, Status: models.StatusActive}
	previewOnly := models.AccessDecision{IsPreviewOnly: true, Status: models.StatusExpired}
	longBody := strings.Repeat("conteúdo ", 200)

	paidTopic := &models.CatalogTopic{
		ID:          "direito-admin-01",
		Title:       "Direito Administrativo",
		ContentPath: "policia-federal/direito-admin-01",
	}
	previewTopic := &models.CatalogTopic{
		ID:          "intro-01",
		Title:       "Introdução",
		IsPreview:   true,
		ContentPath: "policia-federal/intro-01",
	}

	tests := []struct {
		name           string
		topicID        string
		decision       models.AccessDecision
		setupMocks     func(*MockService, *MockStore)
		expectedStatus int
		check          func(t *testing.T, body string)
	}{
		{
			name:     "active subscriber gets full body",
			topicID:  "direito-admin-01",
			decision: fullAccess,
			setupMocks: func(s *MockService, st *MockStore) {
				s.On("GetTopic", mock.Anything, "direito-admin-01").Return(paidTopic, nil).Once()
				st.On("FetchText", mock.Anything, paidTopic.ContentPath).Return(longBody, nil).Once()
				st.On("FetchJSON", mock.Anything, paidTopic.ContentPath, mock.Anything).
					Return(nil, content.ErrNotFound).Once()
				s.On("GetProgress", mock.Anything, "uid-1", "direito-admin-01").
					Return(&models.ProgressRecord{Status: models.ProgressInProgress}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, `"topic":{"id":"direito-admin-01"`)
				assert.Contains(t, body, `"is_full_body":true`)
				assert.Contains(t, body, `"show_upsell":false`)
				assert.Contains(t, body, `"progress_status":"in_progress"`)
			},
		},
		{
			name:     "preview topic overrides expired subscription",
			topicID:  "intro-01",
			decision: previewOnly,
			setupMocks: func(s *MockService, st *MockStore) {
				s.On("GetTopic", mock.Anything, "intro-01").Return(previewTopic, nil).Once()
				st.On("FetchText", mock.Anything, previewTopic.ContentPath).Return(longBody, nil).Once()
				st.On("FetchJSON", mock.Anything, previewTopic.ContentPath, mock.Anything).
					Return(nil, content.ErrNotFound).Once()
				s.On("GetProgress", mock.Anything, "uid-1", "intro-01").
					Return(nil, repository.ErrNotFound).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, `"is_full_body":true`)
				assert.Contains(t, body, `"show_upsell":false`)
				assert.Contains(t, body, `"progress_status":"not_started"`)
			},
		},
		{
			name:     "expired subscriber gets editorial preview",
			topicID:  "direito-admin-01",
			decision: previewOnly,
			setupMocks: func(s *MockService, st *MockStore) {
				s.On("GetTopic", mock.Anything, "direito-admin-01").Return(paidTopic, nil).Once()
				st.On("FetchText", mock.Anything, paidTopic.ContentPath).Return(longBody, nil).Once()
				st.On("FetchJSON", mock.Anything, paidTopic.ContentPath, mock.Anything).
					Return(func(v any) {
						meta := v.(*topicMeta)
						meta.Preview = "prévia editorial do tópico"
					}, nil).Once()
				s.On("GetProgress", mock.Anything, "uid-1", "direito-admin-01").
					Return(nil, repository.ErrNotFound).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, "prévia editorial do tópico")
				assert.Contains(t, body, `"is_full_body":false`)
				assert.Contains(t, body, `"show_upsell":true`)
			},
		},
		{
			name:     "expired subscriber without editorial preview gets truncated body",
			topicID:  "direito-admin-01",
			decision: previewOnly,
			setupMocks: func(s *MockService, st *MockStore) {
				s.On("GetTopic", mock.Anything, "direito-admin-01").Return(paidTopic, nil).Once()
				st.On("FetchText", mock.Anything, paidTopic.ContentPath).Return(longBody, nil).Once()
				st.On("FetchJSON", mock.Anything, paidTopic.ContentPath, mock.Anything).
					Return(nil, content.ErrNotFound).Once()
				s.On("GetProgress", mock.Anything, "uid-1", "direito-admin-01").
					Return(nil, repository.ErrNotFound).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, `"is_full_body":false`)
				assert.Contains(t, body, `"show_upsell":true`)
				assert.NotContains(t, body, longBody)
			},
		},
		{
			name:     "unknown topic",
			topicID:  "fantasma",
			decision: fullAccess,
			setupMocks: func(s *MockService, _ *MockStore) {
				s.On("GetTopic", mock.Anything, "fantasma").Return(nil, repository.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, `"error":"topic not found"`)
			},
		},
		{
			name:     "body missing in content store",
			topicID:  "direito-admin-01",
			decision: fullAccess,
			setupMocks: func(s *MockService, st *MockStore) {
				s.On("GetTopic", mock.Anything, "direito-admin-01").Return(paidTopic, nil).Once()
				st.On("FetchText", mock.Anything, paidTopic.ContentPath).Return("", content.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, `"error":"topic content not found"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockStore := new(MockStore)
			tt.setupMocks(mockService, mockStore)

			handler := New(logger, mockService, mockStore)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(t, tt.topicID, tt.decision))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.check(t, w.Body.String())

			mockService.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}
