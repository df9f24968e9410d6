// Package httpapi is the HTTP surface of the auth server. Handlers
// translate between JSON/cookies and the service layer; they hold no
// business logic of their own.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

// UserAuth is the slice of the user service the handlers need.
type UserAuth interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string, meta services.SessionMetadata) (*services.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, string, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ResendVerification(ctx context.Context, email string) error
}

// SessionAuth is the slice of the session service the handlers need.
type SessionAuth interface {
	ActiveSessions(ctx context.Context, userID string) ([]*models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutAll(ctx context.Context, userID string) error
}

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	users    UserAuth
	sessions SessionAuth
	logger   logging.Logger
	cfg      *config.Config
}

func NewAuthHandler(users UserAuth, sessions SessionAuth, logger logging.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, logger: logger.With("module", "httpapi"), cfg: cfg}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", CodeValidation)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			respondError(c, http.StatusBadRequest, "email already registered", CodeDuplicateEmail)
			return
		}
		respondError(c, http.StatusInternalServerError, "registration failed", CodeInternal)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered, check your email to verify your account",
		"user":    toUserResponse(user),
	})
}

// Login handles POST /api/auth/login. On success the refresh token travels
// only in the cookie; the body carries the access token and the user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", CodeValidation)
		return
	}

	meta := services.SessionMetadata{
		Device:    c.GetHeader("X-Device"),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if meta.Device == "" {
		meta.Device = "Unknown"
	}

	result, err := h.users.Login(c.Request.Context(), req.Email, req.Password, meta)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password", CodeInvalidCredentials)
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed", CodeInternal)
		return
	}

	setRefreshCookie(c, result.Tokens.RefreshToken, h.cfg.RefreshTokenTTL)
	c.JSON(http.StatusOK, gin.H{
		"accessToken": result.Tokens.AccessToken,
		"user":        toUserResponse(result.User),
	})
}

// Refresh handles POST /api/auth/refresh. The refresh token arrives in the
// cookie; every failure clears it so a broken client stops retrying.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(common.RefreshTokenCookieName)
	if err != nil || refreshToken == "" {
		respondError(c, http.StatusUnauthorized, "refresh token required", CodeNoToken)
		return
	}

	pair, _, err := h.users.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		clearRefreshCookie(c)
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			respondError(c, http.StatusUnauthorized, "refresh token expired", CodeTokenExpired)
		case errors.Is(err, common.ErrorNotFound),
			errors.Is(err, common.ErrorSessionInactive),
			errors.Is(err, common.ErrorUserMissing):
			respondError(c, http.StatusUnauthorized, "invalid refresh token", CodeTokenInvalid)
		default:
			respondError(c, http.StatusInternalServerError, "refresh failed", CodeInternal)
		}
		return
	}

	setRefreshCookie(c, pair.RefreshToken, h.cfg.RefreshTokenTTL)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// Logout handles POST /api/auth/logout: ends the session bound to the
// presented access token.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(ctxSessionID)
	if err := h.sessions.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, http.StatusInternalServerError, "logout failed", CodeInternal)
		return
	}
	clearRefreshCookie(c)
	respondMessage(c, http.StatusOK, "logged out")
}

// LogoutAll handles POST /api/auth/logout-all.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	if err := h.sessions.LogoutAll(c.Request.Context(), userID); err != nil {
		respondError(c, http.StatusInternalServerError, "logout failed", CodeInternal)
		return
	}
	clearRefreshCookie(c)
	respondMessage(c, http.StatusOK, "logged out everywhere")
}

// Sessions handles GET /api/auth/sessions, marking the session the caller
// is currently on.
func (h *AuthHandler) Sessions(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	current := c.GetString(ctxSessionID)

	list, err := h.sessions.ActiveSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "session list failed", CodeInternal)
		return
	}

	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, sessionResponse{
			ID:        s.ID,
			Device:    s.Device,
			IP:        s.IP,
			UserAgent: s.UserAgent,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
			IsCurrent: s.ID == current,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// VerifyEmail handles GET /api/auth/verify/:token. Expired and invalid
// tokens are reported distinctly so the frontend can offer a resend.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	err := h.users.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			respondError(c, http.StatusBadRequest, "verification link expired", CodeTokenExpired)
		case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorUserMissing):
			respondError(c, http.StatusBadRequest, "invalid verification link", CodeTokenInvalid)
		default:
			respondError(c, http.StatusInternalServerError, "verification failed", CodeInternal)
		}
		return
	}
	respondMessage(c, http.StatusOK, "email verified")
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is
// identical whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", CodeValidation)
		return
	}
	if err := h.users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, http.StatusInternalServerError, "request failed", CodeInternal)
		return
	}
	respondMessage(c, http.StatusOK, "if the email is registered, a reset link has been sent")
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", CodeValidation)
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	}

	err := h.users.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			respondError(c, http.StatusBadRequest, "reset link expired", CodeTokenExpired)
		case errors.Is(err, common.ErrorNotFound):
			respondError(c, http.StatusBadRequest, "invalid reset link", CodeTokenInvalid)
		default:
			respondError(c, http.StatusInternalServerError, "reset failed", CodeInternal)
		}
		return
	}
	respondMessage(c, http.StatusOK, "password reset, please log in again")
}

// ResendVerification handles POST /api/auth/resend-verification. Unknown
// and already-verified emails get the same success shape so this endpoint
// leaks nothing about account existence or state.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", CodeValidation)
		return
	}
	err := h.users.ResendVerification(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, common.ErrorAlreadyVerified) {
		respondError(c, http.StatusInternalServerError, "request failed", CodeInternal)
		return
	}
	respondMessage(c, http.StatusOK, "if the email needs verification, a link has been sent")
}
