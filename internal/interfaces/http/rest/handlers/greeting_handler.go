// Package handlers holds the HTTP handlers mounted by the router.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/pkg/api"
)

const defaultGreetingName = "World"

// GreetingHandler serves the stateless hello and health endpoints.
type GreetingHandler struct {
	now func() time.Time
}

// NewGreetingHandler creates a greeting handler stamping messages with now.
func NewGreetingHandler(now func() time.Time) *GreetingHandler {
	if now == nil {
		now = time.Now
	}
	return &GreetingHandler{now: now}
}

// Hello godoc
// @Summary Greet the caller
// @Tags greeting
// @Produce json
// @Param name query string false "Name to greet" default(World)
// @Success 200 {object} domain.Message
// @Router /api/hello [get]
func (h *GreetingHandler) Hello(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = defaultGreetingName
	}
	api.Success(w, http.StatusOK, domain.NewMessage(fmt.Sprintf("Hello, %s!", name), h.now()))
}

// Health godoc
// @Summary Liveness probe
// @Tags greeting
// @Produce json
// @Success 200 {object} domain.Message
// @Router /api/health [get]
func (h *GreetingHandler) Health(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, domain.NewMessage("UP", h.now()))
}
