package models

import "time"

// User represents the users table.
// RefreshToken and RefreshTokenExpiresAt form a single refresh slot: both are nil until
// the first token is issued, and every login or refresh overwrites them together.
type User struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Email                 string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Username              string     `gorm:"not null;size:100" json:"username"`
	PasswordHash          string     `gorm:"not null;size:255" json:"-"`
	RefreshToken          *string    `gorm:"uniqueIndex;size:128" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// RefreshTokenValid reports whether the stored refresh slot is still usable at now.
func (u *User) RefreshTokenValid(now time.Time) bool {
	return u.RefreshToken != nil && u.RefreshTokenExpiresAt != nil && u.RefreshTokenExpiresAt.After(now)
}
