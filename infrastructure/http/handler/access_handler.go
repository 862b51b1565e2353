package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sefworks/partner-portal/infrastructure/http/middleware"
	"github.com/sefworks/partner-portal/infrastructure/http/response"
)

// AccessHandler reports the caller's resolved role and tenant. The
// portal shell calls it to decide which navigation to render.
type AccessHandler struct{}

func NewAccessHandler() *AccessHandler {
	return &AccessHandler{}
}

func (h *AccessHandler) RegisterRoutes(router *mux.Router, access *middleware.AccessMiddleware) {
	router.HandleFunc("/api/me/access", access.WithAccess(h.GetAccess)).Methods("GET")
}

func (h *AccessHandler) GetAccess(w http.ResponseWriter, r *http.Request) {
	resolved := middleware.GetAccess(r.Context())
	response.Success(w, http.StatusOK, resolved)
}
