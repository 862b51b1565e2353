package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/application/usecase/directory"
	"github.com/sefworks/partner-portal/infrastructure/http/middleware"
	"github.com/sefworks/partner-portal/infrastructure/http/response"
)

type updateDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// DirectoryHandler serves the membership directory and the activity
// log view.
type DirectoryHandler struct {
	directory *directory.Directory
	logger    outbound.Logger
}

func NewDirectoryHandler(d *directory.Directory, log outbound.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: d,
		logger:    log,
	}
}

func (h *DirectoryHandler) RegisterRoutes(router *mux.Router, access *middleware.AccessMiddleware) {
	router.HandleFunc("/api/memberships", access.RequireAuth(h.ListMemberships)).Methods("GET")
	router.HandleFunc("/api/admin/memberships/{id}/disabled", access.RequireAuth(h.UpdateDisabled)).Methods("PATCH")
	router.HandleFunc("/api/admin/activity", access.RequireAuth(h.ListActivity)).Methods("GET")
}

func (h *DirectoryHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberships, err := h.directory.ListMemberships(ctx, middleware.GetAccess(ctx))
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, memberships)
}

func (h *DirectoryHandler) UpdateDisabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	membershipID := mux.Vars(r)["id"]

	var req updateDisabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	err := h.directory.SetMembershipDisabled(ctx, middleware.GetAccess(ctx), middleware.GetIdentity(ctx), membershipID, req.Disabled)
	if err != nil {
		if errors.Is(err, outbound.ErrMembershipNotFound) {
			response.NotFound(w, "Membership not found")
			return
		}
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, map[string]interface{}{
		"id":       membershipID,
		"disabled": req.Disabled,
	})
}

func (h *DirectoryHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.directory.ListActivity(ctx, middleware.GetAccess(ctx), limit)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, entries)
}
