package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
)

// Context keys populated by BearerAuth for downstream handlers.
const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
	ctxSessionID = "sessionID"
)

// BearerAuth validates the Authorization header and stores the claims on
// the request context. An expired token and a malformed one get distinct
// codes so clients only attempt a silent refresh when it can succeed.
func BearerAuth(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			respondError(c, http.StatusUnauthorized, "authorization required", CodeNoToken)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(c, http.StatusUnauthorized, "invalid authorization header", CodeTokenInvalid)
			return
		}

		claims, err := auth.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				respondError(c, http.StatusUnauthorized, "token expired", CodeTokenExpired)
				return
			}
			respondError(c, http.StatusUnauthorized, "invalid token", CodeTokenInvalid)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxSessionID, claims.SessionID)
		c.Next()
	}
}
