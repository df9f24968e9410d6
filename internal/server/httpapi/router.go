package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
)

// NewRouter wires the auth routes. Public routes come first; the bearer
// group guards everything that acts on an established session.
func NewRouter(users UserAuth, sessions SessionAuth, logger logging.Logger, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewAuthHandler(users, sessions, logger, cfg)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/verify/:token", h.VerifyEmail)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.POST("/resend-verification", h.ResendVerification)

		protected := authGroup.Group("")
		protected.Use(BearerAuth([]byte(cfg.SecretKey)))
		{
			protected.POST("/logout", h.Logout)
			protected.POST("/logout-all", h.LogoutAll)
			protected.GET("/sessions", h.Sessions)
		}
	}

	return router
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	log := logger.With("module", "http")
	return func(c *gin.Context) {
		c.Next()
		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
