package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	users         service.UserService
	tokens        auth.JWTService
	tokenLifetime time.Duration
}

// NewAuthHandler creates a new AuthHandler. tokenLifetime is reported to
// clients as expires_in and should match the JWT service's lifetime.
func NewAuthHandler(users service.UserService, tokens auth.JWTService, tokenLifetime time.Duration) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, tokenLifetime: tokenLifetime}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create account")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	token, err := h.tokens.GenerateToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokenLifetime / time.Second),
	})
}
