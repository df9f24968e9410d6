package models

import "time"

type User struct {
	ID             string
	Email          string
	PasswordDigest string
	EmailVerified  bool
	CreatedAt      time.Time
}
