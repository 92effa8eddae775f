package user

import "time"

type User struct {
	ID            int64      `gorm:"primaryKey"`
	Username      string     `gorm:"not null"`
	Email         string     `gorm:"uniqueIndex;not null"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	IsVerified    bool       `gorm:"column:is_verified;default:false"`
	Code          *string    `gorm:"column:otp_code"`
	CodeExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
