package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sefworks/partner-portal/application/port/inbound"
	"github.com/sefworks/partner-portal/application/port/outbound"
	"github.com/sefworks/partner-portal/infrastructure/http/middleware"
	"github.com/sefworks/partner-portal/infrastructure/http/response"
)

// ProvisioningHandler exposes the account-provisioning workflow.
// Authentication is handled by the access middleware; authorization
// lives in the saga so the full error taxonomy flows from one place.
type ProvisioningHandler struct {
	provisioner inbound.AccountProvisioner
	logger      outbound.Logger
}

func NewProvisioningHandler(provisioner inbound.AccountProvisioner, log outbound.Logger) *ProvisioningHandler {
	return &ProvisioningHandler{
		provisioner: provisioner,
		logger:      log,
	}
}

func (h *ProvisioningHandler) RegisterRoutes(router *mux.Router, access *middleware.AccessMiddleware) {
	router.HandleFunc("/api/admin/accounts", access.RequireAuth(h.ProvisionAccount)).Methods("POST")
}

func (h *ProvisioningHandler) ProvisionAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inbound.ProvisionAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	requester := middleware.GetAccess(ctx)
	actor := middleware.GetIdentity(ctx)

	result, err := h.provisioner.Provision(ctx, req, requester, actor)
	if err != nil {
		h.logger.Warn(ctx, "provisioning rejected", map[string]interface{}{
			"email": req.Email,
			"error": err.Error(),
		})
		response.AppError(w, err)
		return
	}

	resp := inbound.ProvisionAccountResponse{
		Success:      true,
		IdentityID:   result.IdentityID,
		MembershipID: result.MembershipID,
	}
	if result.RecoveryLink != "" {
		link := result.RecoveryLink
		resp.RecoveryLink = &link
	}
	response.Success(w, http.StatusCreated, resp)
}
