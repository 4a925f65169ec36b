package handlers

import (
	"buho-backend/internal/models"
	"buho-backend/internal/services"
	"buho-backend/pkg/httputil"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleSignup registers a new user.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrEmailDomainForbidden):
			httputil.RespondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrUserAlreadyExists):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("HandleSignup: unexpected error: %v", err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to sign up")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}

// HandleLogin verifies credentials and returns an access token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var locked *services.AccountLockedError
		switch {
		case errors.As(err, &locked):
			httputil.RespondError(w, http.StatusTooManyRequests, locked.Error())
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			httputil.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			log.Printf("HandleLogin: unexpected error: %v", err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.AuthResponse{
		AccessToken: token,
		User: models.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	})
}
