package http

import (
	"net/http"

	"erp-subscription-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route. Signup and activation endpoints are
// public; session and billing endpoints sit behind requireAuth.
func NewRouter(
	subscriptions *SubscriptionHandler,
	auth *AuthHandler,
	billing *BillingHandler,
	tokens security.TokenManager,
) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/subscription/create", subscriptions.CreateSubscription).Methods(http.MethodPost)
	api.HandleFunc("/subscription/activate", subscriptions.Activate).Methods(http.MethodPost)
	api.HandleFunc("/subscription/verify-token/{token}", subscriptions.VerifyToken).Methods(http.MethodGet)
	api.HandleFunc("/subscription/check-email/{email}", subscriptions.CheckEmail).Methods(http.MethodGet)
	api.HandleFunc("/subscription/draft/{session}", subscriptions.SaveDraft).Methods(http.MethodPut)
	api.HandleFunc("/subscription/draft/{session}", subscriptions.GetDraft).Methods(http.MethodGet)
	api.HandleFunc("/subscription/draft/{session}", subscriptions.ClearDraft).Methods(http.MethodDelete)

	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", requireAuth(tokens, auth.Session)).Methods(http.MethodGet)

	api.HandleFunc("/billing/portal", requireAuth(tokens, billing.Portal)).Methods(http.MethodGet)
	api.HandleFunc("/billing/status", requireAuth(tokens, billing.ChangeStatus)).Methods(http.MethodPost)
	api.HandleFunc("/billing/admin", requireAuth(tokens, billing.ChangeAdmin)).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return logRequests(r)
}
