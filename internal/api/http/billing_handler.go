package http

import (
	"net/http"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/service"
)

// BillingHandler serves the billing portal. Every endpoint requires an
// authenticated billing_owner or admin; the service enforces the role.
type BillingHandler struct {
	billing service.BillingService
}

func NewBillingHandler(billing service.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	info, err := h.billing.Portal(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, portalDTO{
		Organization: toOrganizationDTO(info.Organization),
		Members:      toMemberDTOs(info.Members),
	})
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *BillingHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	org, err := h.billing.ChangeStatus(r.Context(), userIDFrom(r.Context()), domain.SubscriptionStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toOrganizationDTO(org))
}

type changeAdminRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ChangeAdmin promotes an existing member or invites a new pending admin.
// The setup half of the response is null on promotion since no activation
// is needed.
func (h *BillingHandler) ChangeAdmin(w http.ResponseWriter, r *http.Request) {
	var req changeAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}

	info, err := h.billing.ChangeAdmin(r.Context(), userIDFrom(r.Context()), req.Email, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"setup": toSetupInfoDTO(info)})
}
