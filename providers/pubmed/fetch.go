package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"survey-admin/config"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// ESummaryResponse ist der relevante Ausschnitt der ESummary-JSON-Antwort.
type ESummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type summaryEntry struct {
	Title string `json:"title"`
}

// Fetcher kapselt die Logik zur Interaktion mit PubMed.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des PubMed-Fetchers.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// FetchTitle holt den Studientitel zu einer PMID über ESummary. Wird beim
// PDF-Upload best-effort aufgerufen; ein Fehler hier blockiert den Upload
// nicht.
func (f *Fetcher) FetchTitle(ctx context.Context, pmid string) (string, error) {
	log := f.Logger.With(zap.String("pmid", pmid))

	summaryURL := f.buildEsummaryURL(pmid)
	log.Debug("Rufe ESummary-URL auf", zap.String("url", summaryURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, summaryURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("esummary failed: status %d", resp.StatusCode)
	}

	var sum ESummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return "", err
	}

	raw, ok := sum.Result[pmid]
	if !ok {
		return "", fmt.Errorf("pmid %s not in esummary result", pmid)
	}
	var entry summaryEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "", err
	}
	if entry.Title == "" {
		log.Debug("ESummary-Eintrag ohne Titel.")
	}
	return entry.Title, nil
}

// buildEsummaryURL baut die ESummary-URL inklusive Tool- und API-Key-Parametern.
func (f *Fetcher) buildEsummaryURL(pmid string) string {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", pmid)
	params.Set("retmode", "json")
	if f.Config.PubMedTool != "" {
		params.Set("tool", f.Config.PubMedTool)
	}
	if f.Config.PubMedAPIKey != "" {
		params.Set("api_key", f.Config.PubMedAPIKey)
	}
	return fmt.Sprintf("%s/esummary.fcgi?%s", f.Config.PubMedBaseURL, params.Encode())
}
