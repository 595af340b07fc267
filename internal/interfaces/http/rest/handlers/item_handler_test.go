package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	appErrors "github.com/novacaap/java-sample-docker/pkg/errors"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemService) Get(ctx context.Context, id domain.ItemID) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) Create(ctx context.Context, draft domain.NewItemDraft) (domain.Item, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id domain.ItemID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func serve(h *ItemHandler, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/items", h.List)
	r.Post("/api/items", h.Create)
	r.Get("/api/items/{id}", h.Get)
	r.Delete("/api/items/{id}", h.Delete)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestItemHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found has empty body", appErrors.NewNotFound("item 5"), http.StatusNotFound, ""},
		{"unavailable store", appErrors.NewUnavailable("circuit open", errors.New("open")), http.StatusServiceUnavailable, `{"error":"Service Unavailable"}`},
		{"internal failure", appErrors.NewInternal("get item", errors.New("disk")), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
		{"unclassified error", errors.New("surprise"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockItemService)
			svc.On("Get", mock.Anything, domain.ItemID(5)).Return(domain.Item{}, tt.err)

			rec := serve(NewItemHandler(svc, zap.NewNop()), http.MethodGet, "/api/items/5", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody == "" {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestItemHandler_CreatePassesDraft(t *testing.T) {
	svc := new(MockItemService)
	draft := domain.NewItemDraft{Name: lo.ToPtr("n")}
	svc.On("Create", mock.Anything, draft).Return(domain.Item{ID: 3, Name: "n"}, nil)

	rec := serve(NewItemHandler(svc, zap.NewNop()), http.MethodPost, "/api/items", `{"name":"n"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":3,"name":"n","description":""}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestItemHandler_BadIDNeverReachesService(t *testing.T) {
	svc := new(MockItemService)

	rec := serve(NewItemHandler(svc, zap.NewNop()), http.MethodDelete, "/api/items/x", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid item id \"x\""}`, rec.Body.String())
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
