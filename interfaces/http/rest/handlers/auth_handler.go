package handlers

import (
	"net/http"
	"strings"

	"clinect-backend/pkg/auth"
	"clinect-backend/pkg/common"
	apperrors "clinect-backend/pkg/errors"
	"clinect-backend/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler handles session-related HTTP requests. Login is open: any
// non-empty username gets a session token, there is no password check.
type AuthHandler struct {
	generator *auth.Generator
	logger    *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(generator *auth.Generator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		generator: generator,
		logger:    logger,
	}
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		common.RespondAppError(w, apperrors.NewValidationError("username is required"))
		return
	}

	token, err := h.generator.GenerateToken(username)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		common.RespondAppError(w, apperrors.NewInternalError("failed to create session").WithCause(err))
		return
	}

	h.logger.Info("user logged in", zap.String("username", username))

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data:    LoginResponse{Username: username, Token: token},
	})
}

// Logout handles POST /api/logout. Tokens are stateless, so logout is a
// client-side discard; the endpoint exists for the session surface to be
// symmetric.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data:    map[string]string{"message": "logged out"},
	})
}

// CurrentUser handles GET /api/current-user. Asking "who am I" is always
// answerable, so an anonymous caller gets a 200 with logged_in=false rather
// than an authentication error.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondJSON(w, http.StatusOK, common.APIResponse{
			Success: true,
			Data:    map[string]any{"logged_in": false},
		})
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]any{
			"logged_in": true,
			"username":  user.Username,
		},
	})
}
