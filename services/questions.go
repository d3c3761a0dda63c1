package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"survey-admin/models"
)

// ValidationError ist ein feldbezogener Eingabefehler, der dem Client
// neben dem betroffenen Feld angezeigt wird.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// QuestionInput ist der rohe Request-Body für Anlegen/Ändern einer Frage.
// Ältere Dashboard-Versionen haben die Felder teils als title/input_type/
// choices geschickt; die Aliase werden genau einmal hier an der Grenze
// normalisiert statt in jedem Handler erneut.
type QuestionInput struct {
	Question    string   `json:"question"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	InputType   string   `json:"input_type"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options"`
	Choices     []string `json:"choices"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// NormalizeQuestionInput bildet einen rohen Request auf die kanonische
// Question-Form ab und erzwingt die Invarianten aus dem Datenmodell:
// select braucht mindestens eine nicht-leere Option, placeholder gilt nur
// für text, options nur für select.
func NormalizeQuestionInput(in QuestionInput) (models.Question, error) {
	var q models.Question

	q.Question = firstNonEmpty(in.Question, in.Title)
	if q.Question == "" {
		return q, &ValidationError{Field: "question", Message: "question text is required"}
	}

	q.Type = strings.ToLower(firstNonEmpty(in.Type, in.InputType))
	if q.Type == "" {
		q.Type = models.QuestionTypeText
	}
	if q.Type != models.QuestionTypeText && q.Type != models.QuestionTypeSelect {
		return q, &ValidationError{Field: "type", Message: fmt.Sprintf("unsupported question type %q", q.Type)}
	}

	options := in.Options
	if len(options) == 0 {
		options = in.Choices
	}
	cleaned := make([]string, 0, len(options))
	for _, opt := range options {
		if s := strings.TrimSpace(opt); s != "" {
			cleaned = append(cleaned, s)
		}
	}

	switch q.Type {
	case models.QuestionTypeSelect:
		if len(cleaned) == 0 {
			return q, &ValidationError{Field: "options", Message: "a dropdown question needs at least one option"}
		}
		raw, err := json.Marshal(cleaned)
		if err != nil {
			return q, err
		}
		q.Options = raw
		q.Placeholder = "" // für select ohne Bedeutung
	case models.QuestionTypeText:
		q.Placeholder = strings.TrimSpace(in.Placeholder)
		q.Options = nil // für text ohne Bedeutung
	}

	return q, nil
}

// QuestionOptions dekodiert das Options-JSON einer Frage. Fehlende oder
// defekte Daten liefern eine leere Liste.
func QuestionOptions(q models.Question) []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}
