package models

import (
	"time"

	"gorm.io/datatypes"
)

// Fragetypen, die das Dashboard kennt.
const (
	QuestionTypeText   = "text"
	QuestionTypeSelect = "select"
)

// Question repräsentiert eine Umfrage-Frage des Gesundheitsfragebogens.
// Placeholder ist nur für type=text relevant, Options nur für type=select;
// die gegenseitige Ausschließlichkeit wird beim Speichern erzwungen, nicht
// im Schema.
type Question struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Question    string `json:"question" gorm:"type:text;not null"`
	Type        string `json:"type" gorm:"index;not null;default:'text'"`
	Placeholder string `json:"placeholder,omitempty"`

	// Geordnete Liste von Antwortmöglichkeiten als JSON-Array.
	Options datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`

	// Reihenfolge im öffentlichen Fragebogen
	Position int `json:"position" gorm:"index;default:0"`
}
