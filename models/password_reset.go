package models

import "time"

// PasswordResetCode ist ein per Mail verschickter Einmalcode (OTP).
// Der Code selbst wird nur als bcrypt-Hash gespeichert.
type PasswordResetCode struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`

	Email     string    `gorm:"size:255;index;not null"`
	CodeHash  string    `gorm:"size:255;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Consumed  bool      `gorm:"default:false"`
}
