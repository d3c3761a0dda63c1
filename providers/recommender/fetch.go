package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"survey-admin/config"
	"survey-admin/models"

	"go.uber.org/zap"
)

// Request ist das Payload für den externen Recommender-Webhook.
type Request struct {
	Responses []ResponseItem `json:"responses"`
}

// ResponseItem ist ein einzelnes Frage/Antwort-Paar.
type ResponseItem struct {
	Question     string `json:"question"`
	ResponseText string `json:"response_text"`
}

// Response ist die Antwort des Webhooks. Ältere Workflow-Versionen liefern
// das Feld "output" statt "recommendation".
type Response struct {
	Recommendation string `json:"recommendation"`
	Output         string `json:"output"`
}

// Fetcher kapselt den Aufruf des externen AI-Recommenders. Der Dienst
// selbst ist eine Blackbox; hier interessiert nur der Markdown-Text.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *http.Client
}

// NewFetcher erstellt einen neuen Recommender-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		client: &http.Client{Timeout: time.Duration(cfg.RecommenderTimeout) * time.Second},
	}
}

// Enabled meldet, ob ein Webhook konfiguriert ist.
func (f *Fetcher) Enabled() bool {
	return f.Config.RecommenderURL != ""
}

// GetRecommendation schickt die Antworten einer Einreichung an den Webhook
// und gibt den generierten Markdown-Text zurück.
func (f *Fetcher) GetRecommendation(ctx context.Context, answers []models.SurveyAnswer) (string, error) {
	if !f.Enabled() {
		return "", fmt.Errorf("recommender webhook ist nicht konfiguriert")
	}

	payload := Request{Responses: make([]ResponseItem, 0, len(answers))}
	for _, a := range answers {
		payload.Responses = append(payload.Responses, ResponseItem{
			Question:     a.Question,
			ResponseText: a.ResponseText,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Config.RecommenderURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	log := f.Logger.With(zap.Int("answer_count", len(answers)))
	log.Debug("Rufe Recommender-Webhook auf.")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recommender request failed with status: %d", resp.StatusCode)
	}

	var rr Response
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", err
	}

	text := rr.Recommendation
	if text == "" {
		text = rr.Output
	}
	if text == "" {
		return "", fmt.Errorf("recommender lieferte keinen Text")
	}

	log.Info("Recommendation received", zap.Int("length", len(text)))
	return text, nil
}
