package handlers

import (
	"net/http"

	"github.com/swaggo/swag"

	"github.com/novacaap/java-sample-docker/pkg/api"
)

// WelcomeText is served at the root path.
const WelcomeText = "Welcome to the Sample Items API. API documentation: /swagger/doc.json"

// Root serves the plain text welcome string.
func Root(w http.ResponseWriter, r *http.Request) {
	api.Text(w, http.StatusOK, WelcomeText)
}

// SwaggerDoc serves the registered OpenAPI document.
func SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "API documentation unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
