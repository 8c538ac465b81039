package http

import (
	"net/http"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/service"

	"github.com/gorilla/mux"
)

// SubscriptionHandler serves the signup wizard: draft persistence, email
// availability, subscription commit, and setup-token activation.
type SubscriptionHandler struct {
	subscriptions service.SubscriptionService
	activation    service.ActivationService
}

func NewSubscriptionHandler(subscriptions service.SubscriptionService, activation service.ActivationService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, activation: activation}
}

type createSubscriptionRequest struct {
	domain.SubscriptionDraft
	DraftSession string              `json:"draftSession"`
	Card         *domain.CardDetails `json:"card"`
}

// CreateSubscription commits the wizard: charges the card, provisions the
// organization and its pending users, and returns the setup links.
func (h *SubscriptionHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.subscriptions.CreateSubscription(r.Context(), req.DraftSession, &req.SubscriptionDraft, req.Card)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, toSubscriptionResultDTO(result))
}

type activateRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Activate consumes a setup token and sets the account password.
func (h *SubscriptionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.activation.Activate(r.Context(), req.Token, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, activationResultDTO{
		User: userSummary{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  string(result.User.Role),
		},
		Organization: toOrganizationSummary(result.Organization),
	})
}

// VerifyToken resolves a setup token without consuming it, so the
// set-password page can show who is activating.
func (h *SubscriptionHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	info, err := h.activation.Verify(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, tokenInfoDTO{
		Email:            info.Email,
		Role:             string(info.Role),
		OrganizationName: info.OrganizationName,
	})
}

// CheckEmail reports whether an email is free to register.
func (h *SubscriptionHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	available, err := h.subscriptions.CheckEmailAvailable(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]bool{"available": available})
}

type saveDraftRequest struct {
	Step  string                   `json:"step"`
	Draft domain.SubscriptionDraft `json:"draft"`
}

// SaveDraft stores wizard progress keyed by the caller's session id.
func (h *SubscriptionHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session"]

	var req saveDraftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.subscriptions.SaveDraft(r.Context(), sessionID, domain.DraftStep(req.Step), &req.Draft); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, req.Draft)
}

// GetDraft returns the stored wizard progress for a session.
func (h *SubscriptionHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session"]

	draft, err := h.subscriptions.GetDraft(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, draft)
}

// ClearDraft discards a session's wizard progress.
func (h *SubscriptionHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session"]

	if err := h.subscriptions.ClearDraft(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "Draft cleared"})
}
