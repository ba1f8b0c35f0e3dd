package models

import "time"

// User represents a registered customer or administrator.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"uniqueIndex;type:varchar(50);not null" validate:"required,min=3,max=50"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(120);not null" validate:"required,email"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"`
	IsAdmin      bool   `json:"is_admin" gorm:"default:false"`

	// Password-reset state: a short-lived 6-digit code emailed to the user.
	VerificationCode          *string    `json:"-" gorm:"type:varchar(6)"`
	VerificationCodeExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleDisplay returns the role label shown in the admin user list.
func (u *User) RoleDisplay() string {
	if u.IsAdmin {
		return "Administrator"
	}
	return "User"
}
