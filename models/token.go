package models

import "time"

// PasswordResetToken stores the bcrypt hash of a reset token mailed to
// a supervisor. The raw token never touches the database.
type PasswordResetToken struct {
	TokenID      uint      `gorm:"primaryKey;column:token_id" json:"token_id"`
	SupervisorID uint      `gorm:"column:supervisor_id;not null;index" json:"supervisor_id"`
	TokenHash    string    `gorm:"column:token_hash;size:255;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	IsRevoked    bool      `gorm:"column:is_revoked;not null;default:false" json:"is_revoked"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	Supervisor *Supervisor `gorm:"foreignKey:SupervisorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
