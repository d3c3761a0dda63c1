package models

import (
	"time"
)

// SurveyUser ist der Endnutzer, der den Fragebogen ausgefüllt hat.
// Admin-Konten werden separat in AdminAccount geführt.
type SurveyUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`

	Email    string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Username string `json:"username" gorm:"size:100"`
	Role     string `json:"role" gorm:"size:50;default:'user'"`
}

// SurveyResponseRecord ist eine abgeschlossene Umfrage-Einreichung inklusive
// der optional von der externen AI erzeugten Empfehlung. Das Admin-Dashboard
// liest und löscht diese Datensätze nur; erzeugt werden sie ausschließlich
// serverseitig beim Submit.
type SurveyResponseRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedOn time.Time `json:"created_on" gorm:"autoCreateTime;index"`

	UserID uint       `json:"-" gorm:"index;not null"`
	User   SurveyUser `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	UserResponses []SurveyAnswer `json:"user_responses" gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"`

	// NULL solange keine Empfehlung erzeugt wurde (Recommender nicht
	// konfiguriert oder fehlgeschlagen).
	AIResponse *string `json:"ai_response" gorm:"column:ai_response;type:text"`
}

// SurveyAnswer ist eine einzelne Frage/Antwort innerhalb einer Einreichung.
// Der Fragetext wird denormalisiert gespeichert, damit Historie auch nach
// dem Löschen oder Umformulieren einer Frage lesbar bleibt.
type SurveyAnswer struct {
	ID       uint `json:"-" gorm:"primaryKey"`
	RecordID uint `json:"-" gorm:"index;not null"`

	Position     int    `json:"-" gorm:"index"`
	Question     string `json:"question" gorm:"type:text;not null"`
	ResponseText string `json:"response_text" gorm:"type:text"`
}
