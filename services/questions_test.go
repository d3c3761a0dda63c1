package services

import (
	"errors"
	"testing"

	"survey-admin/models"
)

func TestNormalizeQuestionInputSelectRequiresOptions(t *testing.T) {
	_, err := NormalizeQuestionInput(QuestionInput{
		Question: "How often do you exercise?",
		Type:     "select",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "options" {
		t.Fatalf("error not attributed to options: %+v", verr)
	}
}

func TestNormalizeQuestionInputSelectDropsPlaceholder(t *testing.T) {
	q, err := NormalizeQuestionInput(QuestionInput{
		Question:    "Smoking?",
		Type:        "select",
		Placeholder: "should vanish",
		Options:     []string{"yes", " no ", ""},
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Placeholder != "" {
		t.Fatalf("placeholder kept for select type: %q", q.Placeholder)
	}
	opts := QuestionOptions(q)
	if len(opts) != 2 || opts[0] != "yes" || opts[1] != "no" {
		t.Fatalf("options not cleaned: %v", opts)
	}
}

func TestNormalizeQuestionInputTextDropsOptions(t *testing.T) {
	q, err := NormalizeQuestionInput(QuestionInput{
		Question:    "Your age?",
		Type:        "text",
		Placeholder: " e.g. 42 ",
		Options:     []string{"stale", "leftover"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Options != nil {
		t.Fatalf("options kept for text type: %s", q.Options)
	}
	if q.Placeholder != "e.g. 42" {
		t.Fatalf("placeholder not trimmed: %q", q.Placeholder)
	}
}

func TestNormalizeQuestionInputLegacyAliases(t *testing.T) {
	q, err := NormalizeQuestionInput(QuestionInput{
		Title:     "Legacy title",
		InputType: "SELECT",
		Choices:   []string{"a", "b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Question != "Legacy title" {
		t.Fatalf("title alias ignored: %q", q.Question)
	}
	if q.Type != models.QuestionTypeSelect {
		t.Fatalf("input_type alias ignored: %q", q.Type)
	}
	if got := QuestionOptions(q); len(got) != 2 {
		t.Fatalf("choices alias ignored: %v", got)
	}
}

func TestNormalizeQuestionInputDefaultsToText(t *testing.T) {
	q, err := NormalizeQuestionInput(QuestionInput{Question: "Anything else?"})
	if err != nil {
		t.Fatal(err)
	}
	if q.Type != models.QuestionTypeText {
		t.Fatalf("missing type not defaulted: %q", q.Type)
	}
}

func TestNormalizeQuestionInputRejectsEmptyQuestion(t *testing.T) {
	_, err := NormalizeQuestionInput(QuestionInput{Type: "text"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "question" {
		t.Fatalf("empty question not rejected: %v", err)
	}
}

func TestNormalizeQuestionInputRejectsUnknownType(t *testing.T) {
	_, err := NormalizeQuestionInput(QuestionInput{Question: "x", Type: "number"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "type" {
		t.Fatalf("unknown type not rejected: %v", err)
	}
}
