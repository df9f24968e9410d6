package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, EmailVerified: u.EmailVerified}
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Device    string    `json:"device"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsCurrent bool      `json:"isCurrent"`
}

var errWeakPassword = errors.New("password must be at least 6 characters and contain a digit")

// validatePassword mirrors the registration schema: length >= 6 and at
// least one digit.
func validatePassword(password string) error {
	if len(password) < 6 || !strings.ContainsAny(password, "0123456789") {
		return errWeakPassword
	}
	return nil
}
