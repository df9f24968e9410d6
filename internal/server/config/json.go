package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for TTL fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr         string         `json:"endpoint_addr"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	AccessTokenTTL       timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL      timex.Duration `json:"refresh_token_ttl"`
	SessionTTL           timex.Duration `json:"session_ttl"`
	VerificationTokenTTL timex.Duration `json:"verification_token_ttl"`
	PasswordResetTTL     timex.Duration `json:"password_reset_ttl"`
	FrontendURL          string         `json:"frontend_url"`
	SMTPAddr             string         `json:"smtp_addr"`
	SMTPUser             string         `json:"smtp_user"`
	SMTPPassword         string         `json:"smtp_password"`
	SMTPFrom             string         `json:"smtp_from"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c/-config flag; when the
// flag is absent the function is a no-op. Only non-zero JSON values
// override the current Config fields.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return
	}

	if jc.EndpointAddr != "" {
		config.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		config.SecretKey = jc.SecretKey
	}
	if jc.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = jc.AccessTokenTTL.Duration
	}
	if jc.RefreshTokenTTL.Duration != 0 {
		config.RefreshTokenTTL = jc.RefreshTokenTTL.Duration
	}
	if jc.SessionTTL.Duration != 0 {
		config.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.VerificationTokenTTL.Duration != 0 {
		config.VerificationTokenTTL = jc.VerificationTokenTTL.Duration
	}
	if jc.PasswordResetTTL.Duration != 0 {
		config.PasswordResetTTL = jc.PasswordResetTTL.Duration
	}
	if jc.FrontendURL != "" {
		config.FrontendURL = jc.FrontendURL
	}
	if jc.SMTPAddr != "" {
		config.SMTPAddr = jc.SMTPAddr
	}
	if jc.SMTPUser != "" {
		config.SMTPUser = jc.SMTPUser
	}
	if jc.SMTPPassword != "" {
		config.SMTPPassword = jc.SMTPPassword
	}
	if jc.SMTPFrom != "" {
		config.SMTPFrom = jc.SMTPFrom
	}
}
