package handlers

import (
	"encoding/json"
	"net/http"

	"task-manager/backend/middleware"
	"task-manager/backend/models"
	"task-manager/backend/services"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(service *services.UserService) *AuthHandler {
	return &AuthHandler{Service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register kreira nalog i odmah vraća token za prijavu. Admin nalog se
// dobija samo uz ispravan adminInviteToken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.User
		AdminInviteToken string `json:"adminInviteToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request data"})
		return
	}

	created, token, err := h.Service.RegisterUser(r.Context(), req.User, req.AdminInviteToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully!",
		"user":    created,
		"token":   token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request data"})
		return
	}

	user, token, err := h.Service.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful!",
		"user":    user,
		"token":   token,
	})
}

// GetProfile vraća podatke ulogovanog korisnika (bez lozinke).
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized, no token"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}
