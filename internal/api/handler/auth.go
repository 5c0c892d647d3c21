// internal/api/handler/auth.go
package handler

import (
	"log/slog"
	"net/http"

	"portfolio-tracker/internal/api/types"
	"portfolio-tracker/internal/auth"
	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/service"
	"portfolio-tracker/internal/util"
)

// AuthHandler handles HTTP requests related to accounts and tokens.
type AuthHandler struct {
	responder
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and logs it in.
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	user, token, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	h.respondWithJSON(w, http.StatusCreated, tokenResponse(user, token))
}

// Login exchanges credentials for an access token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, tokenResponse(user, token))
}

// Me returns the authenticated user.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewUserResponse(user))
}

func tokenResponse(user *domain.User, token string) types.TokenResponse {
	return types.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		User:        types.NewUserResponse(user),
	}
}
