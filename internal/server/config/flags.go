package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, days
//	-n int      session validity, days
//	-v int      verification token validity, hours
//	-w int      password reset token validity, hours
//	-f string   frontend base URL for email links
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Lifetime flags are accepted as integers in the unit noted above and then
//     converted to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-n", "-v", "-w", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "frontend base URL")

	accessTokenMinutes := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	refreshTokenDays := fs.Int("r", int(config.RefreshTokenTTL.Hours()/24), "refresh token validity (in days)")
	sessionDays := fs.Int("n", int(config.SessionTTL.Hours()/24), "session validity (in days)")
	verificationHours := fs.Int("v", int(config.VerificationTokenTTL.Hours()), "verification token validity (in hours)")
	resetHours := fs.Int("w", int(config.PasswordResetTTL.Hours()), "password reset token validity (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTokenMinutes) * time.Minute
	config.RefreshTokenTTL = time.Duration(*refreshTokenDays) * 24 * time.Hour
	config.SessionTTL = time.Duration(*sessionDays) * 24 * time.Hour
	config.VerificationTokenTTL = time.Duration(*verificationHours) * time.Hour
	config.PasswordResetTTL = time.Duration(*resetHours) * time.Hour
}
