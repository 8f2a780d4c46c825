package model

import "time"

// UserID uniquely identifies a registered user
type UserID string

// User is a registered account.
// PasswordDigest is the bcrypt digest and must never leave the server.
type User struct {
	ID             UserID    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"password_digest"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
