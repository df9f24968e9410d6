package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. TTLs follow
// the units the deployment surface uses: access token as a duration string,
// refresh and session lifetimes in days, one-shot token lifetimes in hours.
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_EXPIRY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenTTL = d
		}
	}
	if d, ok := envDays("REFRESH_TOKEN_EXPIRY_DAYS"); ok {
		config.RefreshTokenTTL = d
	}
	if d, ok := envDays("SESSION_EXPIRY_DAYS"); ok {
		config.SessionTTL = d
	}
	if d, ok := envHours("VERIFICATION_TOKEN_EXPIRY_HOURS"); ok {
		config.VerificationTokenTTL = d
	}
	if d, ok := envHours("PASSWORD_RESET_EXPIRY_HOURS"); ok {
		config.PasswordResetTTL = d
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		config.FrontendURL = v
	}
	if v := os.Getenv("SMTP_ADDR"); v != "" {
		config.SMTPAddr = v
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		config.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		config.SMTPPassword = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		config.SMTPFrom = v
	}
}

func envDays(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return time.Duration(n) * 24 * time.Hour, true
}

func envHours(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return time.Duration(n) * time.Hour, true
}
