package models

import "time"

// AdminAccount ist ein Dashboard-Administrator. Es gibt bewusst keine
// Update-Operation: Konten werden angelegt und gelöscht, Passwörter nur
// über den Reset-Flow geändert.
type AdminAccount struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	DateJoined time.Time `json:"date_joined" gorm:"autoCreateTime"`

	Email    string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Username string `json:"username" gorm:"size:100"`
	Password string `json:"-" gorm:"size:255;not null"`

	IsSuperuser bool `json:"is_superuser" gorm:"default:false"`
}
