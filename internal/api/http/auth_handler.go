package http

import (
	"encoding/json"
	"net/http"

	"erp-subscription-backend/internal/service"
)

// AuthHandler serves login, token refresh, logout, and session lookup.
type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, loginResultDTO{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
		User:         toLoginUserDTO(result.User, result.Organization),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, loginResultDTO{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
		User:         toLoginUserDTO(result.User, result.Organization),
	})
}

// Logout succeeds regardless of the request body; the refresh token is
// optional, so a body-less POST still logs out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Session re-reads the caller's user and organization so clients see
// current role and subscription state rather than a login-time snapshot.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	info, err := h.auth.Session(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, sessionDTO{
		User:         toLoginUserDTO(info.User, info.Organization),
		Organization: toOrganizationDTO(info.Organization),
	})
}
