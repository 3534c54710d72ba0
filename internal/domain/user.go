package domain

import "time"

// User represents a registered user of the platform.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	// ResetToken and ResetTokenExpires are set together by a forgot-password
	// request and cleared together when the token is consumed or replaced.
	ResetToken        string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
