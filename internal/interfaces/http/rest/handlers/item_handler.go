package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/pkg/api"
	appErrors "github.com/novacaap/java-sample-docker/pkg/errors"
)

// ItemService is the set of item use cases the handler needs.
type ItemService interface {
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id domain.ItemID) (domain.Item, error)
	Create(ctx context.Context, draft domain.NewItemDraft) (domain.Item, error)
	Delete(ctx context.Context, id domain.ItemID) error
}

// ItemHandler serves the /api/items resource.
type ItemHandler struct {
	service ItemService
	logger  *zap.Logger
}

// NewItemHandler creates an item handler.
func NewItemHandler(service ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{service: service, logger: logger}
}

// List godoc
// @Summary List all items
// @Tags items
// @Produce json
// @Success 200 {array} domain.Item
// @Failure 500 {object} api.ErrorResponse
// @Router /api/items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, items)
}

// Get godoc
// @Summary Get an item by id
// @Tags items
// @Produce json
// @Param id path int true "Item id"
// @Success 200 {object} domain.Item
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 "Item not found"
// @Router /api/items/{id} [get]
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create an item
// @Description Omitted or null fields default to name "Unnamed" and an empty description.
// @Tags items
// @Accept json
// @Produce json
// @Param item body api.CreateItemRequest true "New item"
// @Success 200 {object} domain.Item
// @Failure 400 {object} api.ErrorResponse
// @Router /api/items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req *api.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.handleError(w, r, appErrors.NewValidation("request body is required"))
			return
		}
		h.handleError(w, r, appErrors.NewValidationf(err, "malformed request body"))
		return
	}
	if req == nil {
		h.handleError(w, r, appErrors.NewValidation("request body is required"))
		return
	}

	item, err := h.service.Create(r.Context(), domain.NewItemDraft{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete an item
// @Tags items
// @Param id path int true "Item id"
// @Success 204 "Item deleted"
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 "Item not found"
// @Router /api/items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	api.Status(w, http.StatusNoContent)
}

func parseItemID(r *http.Request) (domain.ItemID, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, appErrors.NewValidationf(err, "invalid item id %q", raw)
	}
	return domain.ItemID(id), nil
}

// handleError maps application errors onto responses. Not-found answers carry
// no body.
func (h *ItemHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := appErrors.As(err)
	if !ok {
		appErr = &appErrors.AppError{Type: appErrors.ErrorTypeInternal, Message: "unexpected error", Err: err}
	}

	status := appErr.HTTPStatus()
	switch {
	case status == http.StatusNotFound:
		api.Status(w, status)
	case status >= http.StatusInternalServerError:
		h.logger.Error("Item request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		api.Error(w, status, http.StatusText(status))
	default:
		api.Error(w, status, appErr.Message)
	}
}
