package models

import (
	"strings"
	"time"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused
// rather than silently truncated.
const maxPasswordBytes = 72

// AdminCredentials is the body of POST /api/login.
type AdminCredentials struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

// NewAdminRequest is the body of POST /api/signup.
type NewAdminRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Admin is a dashboard account. Only admins can read analytics.
type Admin struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NormalizeEmail makes account lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidPassword applies the signup length rules outside of request binding.
func ValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= maxPasswordBytes
}
