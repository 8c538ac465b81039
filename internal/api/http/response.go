package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/service"
)

// apiError is the error half of the response envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope is the uniform response shape every endpoint returns.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Error: &apiError{Code: code, Message: message}})
}

// writeServiceError maps service sentinels to envelope codes and the
// user-facing messages the signup client expects. Token failures stay
// uniform so callers cannot probe which tokens ever existed.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists.")
	case errors.Is(err, service.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, "PAYMENT_FAILED", "Payment was declined. Please try a different card.")
	case errors.Is(err, service.ErrInvalidSetupToken):
		writeError(w, http.StatusNotFound, "INVALID_TOKEN", "Invalid or expired setup link")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrNotActivated):
		writeError(w, http.StatusForbidden, "NOT_ACTIVATED", "Account not activated. Please check your email for the setup link.")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid password")
	case errors.Is(err, service.ErrOrgNotFound):
		writeError(w, http.StatusNotFound, "ORG_NOT_FOUND", "Organization not found")
	case errors.Is(err, service.ErrSubscriptionExpired):
		writeError(w, http.StatusForbidden, "SUBSCRIPTION_EXPIRED", "Subscription expired. Please contact your billing administrator.")
	case errors.Is(err, service.ErrSubscriptionCancelled):
		writeError(w, http.StatusForbidden, "SUBSCRIPTION_CANCELLED", "Subscription cancelled. Please renew your subscription.")
	case errors.Is(err, service.ErrSeatLimitReached):
		writeError(w, http.StatusConflict, "SEAT_LIMIT_REACHED", "All seats for this plan are in use.")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to the billing portal.")
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
	case errors.Is(err, service.ErrDraftNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No pending subscription draft")
	default:
		logger.Error("Unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong. Please try again.")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	return true
}
