package model

import (
	"time"

	"gorm.io/gorm"
)

// User can hold a password credential, a linked Google identity, or both.
// PasswordHash stays empty for OAuth-only accounts.
type User struct {
	gorm.Model
	Name          string     `gorm:"column:name;not null"`
	Email         string     `gorm:"column:email;unique;not null"`
	PasswordHash  string     `gorm:"column:password_hash"`
	GoogleID      *string    `gorm:"column:google_id;uniqueIndex:users_google_id_key,where:google_id IS NOT NULL"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`
	VerifyToken   *string    `gorm:"column:verify_token;index:idx_users_verify_token,where:verify_token IS NOT NULL"`
	VerifyExpires *time.Time `gorm:"column:verify_token_expires_at"`
	LastLogin     *time.Time `gorm:"column:last_login"`
}

// HasPassword reports whether the account can log in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
