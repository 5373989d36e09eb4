package models

import "time"

// AuditLog represents the audit_logs table
// Used for tracking authentication events and destructive travel operations
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditUserRegistered = "user_registration"
	AuditUserLogin      = "user_login"
	AuditTokenRefreshed = "token_refresh"
	AuditUserLogout     = "user_logout"
	AuditTravelDeleted  = "travel_deleted"
)
