package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "erp-subscription-backend/internal/api/http"
	"erp-subscription-backend/internal/repository/memory"
	"erp-subscription-backend/internal/security"
	"erp-subscription-backend/internal/service"

	"github.com/stretchr/testify/assert"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	tokens := security.NewTokenManager("test-secret-0123456789abcdef0123456789", time.Hour, 24*time.Hour)
	email := service.NewEmailService("", "no-reply@example.com", "Test")
	payment := service.NewSimulatedPaymentService(0)
	activation := service.NewActivationService(store, store.Orgs(), "http://app.test")
	subscriptions := service.NewSubscriptionService(store, store.Orgs(), store.Drafts(), activation, payment, email)
	auth := service.NewAuthService(store, store.Orgs(), tokens)
	billing := service.NewBillingService(store, store.Orgs(), activation, email)

	router := httpapi.NewRouter(
		httpapi.NewSubscriptionHandler(subscriptions, activation),
		httpapi.NewAuthHandler(auth),
		httpapi.NewBillingHandler(billing),
		tokens,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, token string) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func signupBody(sameEmail bool) map[string]any {
	return map[string]any{
		"selectedPlan":     "pro",
		"organizationName": "Acme Ltd",
		"billingName":      "Billie Owner",
		"billingEmail":     "billing@acme.test",
		"adminName":        "Addie Admin",
		"adminEmail":       "admin@acme.test",
		"sameEmail":        sameEmail,
		"billingCountry":   "GB",
		"billingAddress1":  "1 High Street",
		"billingCity":      "London",
		"billingPostcode":  "N1 1AA",
	}
}

func TestSignupActivateLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	// Commit the subscription with two people.
	resp, env := doJSON(t, http.MethodPost, base+"/subscription/create", signupBody(false), "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	var created struct {
		Organization struct {
			ID   string `json:"id"`
			Plan string `json:"plan"`
			Tier string `json:"tier"`
		} `json:"organization"`
		BillingOwner struct {
			Email      string `json:"email"`
			SetupToken string `json:"setupToken"`
			SetupURL   string `json:"setupUrl"`
		} `json:"billingOwner"`
		Admin *struct {
			SetupToken string `json:"setupToken"`
		} `json:"admin"`
		License struct {
			Key      string `json:"key"`
			MaxUsers int32  `json:"maxUsers"`
		} `json:"license"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pro", created.Organization.Plan)
	assert.NotNil(t, created.Admin)
	assert.Regexp(t, `^ERP-`, created.License.Key)
	assert.Equal(t, int32(20), created.License.MaxUsers)
	assert.Contains(t, created.BillingOwner.SetupURL, "/setup-password/"+created.BillingOwner.SetupToken)

	// The email is now taken.
	resp, env = doJSON(t, http.MethodGet, base+"/subscription/check-email/billing@acme.test", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var check struct {
		Available bool `json:"available"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &check))
	assert.False(t, check.Available)

	// The setup link resolves without being consumed.
	resp, env = doJSON(t, http.MethodGet, base+"/subscription/verify-token/"+created.BillingOwner.SetupToken, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var verified struct {
		Email            string `json:"email"`
		Role             string `json:"role"`
		OrganizationName string `json:"organizationName"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &verified))
	assert.Equal(t, "billing@acme.test", verified.Email)
	assert.Equal(t, "billing_owner", verified.Role)
	assert.Equal(t, "Acme Ltd", verified.OrganizationName)

	// Login before activation is blocked.
	resp, env = doJSON(t, http.MethodPost, base+"/auth/login", map[string]string{
		"email":    "billing@acme.test",
		"password": "super-secret",
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NOT_ACTIVATED", env.Error.Code)

	// Activate with the setup token.
	resp, env = doJSON(t, http.MethodPost, base+"/subscription/activate", map[string]string{
		"token":    created.BillingOwner.SetupToken,
		"password": "super-secret",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	// The token is single use.
	resp, env = doJSON(t, http.MethodPost, base+"/subscription/activate", map[string]string{
		"token":    created.BillingOwner.SetupToken,
		"password": "super-secret",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)

	// Login now succeeds and carries the tenant claims.
	resp, env = doJSON(t, http.MethodPost, base+"/auth/login", map[string]string{
		"email":    "billing@acme.test",
		"password": "super-secret",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int64  `json:"expiresIn"`
		User         struct {
			Role        string   `json:"role"`
			TenantName  string   `json:"tenantName"`
			Tier        string   `json:"tier"`
			Permissions []string `json:"permissions"`
		} `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "billing_owner", login.User.Role)
	assert.Equal(t, "Acme Ltd", login.User.TenantName)
	assert.Equal(t, "pro", login.User.Tier)

	// Wrong password maps to INVALID_CREDENTIALS.
	resp, env = doJSON(t, http.MethodPost, base+"/auth/login", map[string]string{
		"email":    "billing@acme.test",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	// Session requires a bearer token.
	resp, _ = doJSON(t, http.MethodGet, base+"/auth/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env = doJSON(t, http.MethodGet, base+"/auth/session", nil, login.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	// Billing portal lists both seats.
	resp, env = doJSON(t, http.MethodGet, base+"/billing/portal", nil, login.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var portal struct {
		Organization struct {
			UsedSeats int32 `json:"usedSeats"`
			SeatLimit int32 `json:"seatLimit"`
		} `json:"organization"`
		Members []struct {
			Email       string `json:"email"`
			IsActivated bool   `json:"isActivated"`
		} `json:"members"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &portal))
	assert.Equal(t, int32(2), portal.Organization.UsedSeats)
	assert.Len(t, portal.Members, 2)

	// Refresh rotates tokens.
	resp, env = doJSON(t, http.MethodPost, base+"/auth/refresh", map[string]string{
		"refreshToken": login.RefreshToken,
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestCreateSubscription_PaymentDeclined(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	body := signupBody(true)
	body["card"] = map[string]string{"number": "4000 0000 0000 0002", "expiry": "12/30", "cvc": "123", "name": "Billie"}

	resp, env := doJSON(t, http.MethodPost, base+"/subscription/create", body, "")
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "PAYMENT_FAILED", env.Error.Code)

	// Nothing was provisioned; the email is still free.
	resp, env = doJSON(t, http.MethodGet, base+"/subscription/check-email/billing@acme.test", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var check struct {
		Available bool `json:"available"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &check))
	assert.True(t, check.Available)
}

func TestCreateSubscription_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	resp, _ := doJSON(t, http.MethodPost, base+"/subscription/create", signupBody(true), "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, http.MethodPost, base+"/subscription/create", signupBody(true), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_TAKEN", env.Error.Code)
}

func TestDraftEndpoints(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"
	url := fmt.Sprintf("%s/subscription/draft/%s", base, "sess-1")

	// Missing draft.
	resp, env := doJSON(t, http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	// Invalid step payload is rejected.
	resp, env = doJSON(t, http.MethodPut, url, map[string]any{
		"step":  "plan",
		"draft": map[string]any{"selectedPlan": "platinum"},
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	// Valid save then read back.
	resp, _ = doJSON(t, http.MethodPut, url, map[string]any{
		"step":  "plan",
		"draft": map[string]any{"selectedPlan": "basic"},
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var draft struct {
		SelectedPlan string `json:"selectedPlan"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, "basic", draft.SelectedPlan)

	// Clear, then the draft is gone.
	resp, _ = doJSON(t, http.MethodDelete, url, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBillingEndpoints_RoleGate(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	// Provision and activate a billing owner.
	resp, env := doJSON(t, http.MethodPost, base+"/subscription/create", signupBody(true), "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		BillingOwner struct {
			SetupToken string `json:"setupToken"`
		} `json:"billingOwner"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &created))

	resp, _ = doJSON(t, http.MethodPost, base+"/subscription/activate", map[string]string{
		"token":    created.BillingOwner.SetupToken,
		"password": "super-secret",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, http.MethodPost, base+"/auth/login", map[string]string{
		"email":    "billing@acme.test",
		"password": "super-secret",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &login))

	// Invite a new admin.
	resp, env = doJSON(t, http.MethodPost, base+"/billing/admin", map[string]string{
		"email": "second@acme.test",
		"name":  "Second Admin",
	}, login.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var changed struct {
		Setup *struct {
			SetupToken string `json:"setupToken"`
		} `json:"setup"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &changed))
	assert.NotNil(t, changed.Setup)

	// Cancel the subscription; the next login is refused.
	resp, _ = doJSON(t, http.MethodPost, base+"/billing/status", map[string]string{
		"status": "cancelled",
	}, login.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, http.MethodPost, base+"/auth/login", map[string]string{
		"email":    "billing@acme.test",
		"password": "super-secret",
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "SUBSCRIPTION_CANCELLED", env.Error.Code)
}

func TestLogout_NoBody(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	resp, env := doJSON(t, http.MethodPost, base+"/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var data struct {
		Message string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Logged out", data.Message)
}
