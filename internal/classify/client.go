package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Enrichment is what the external classification endpoint returns. Any field
// may be empty; merging is handled by ApplyEnrichment.
type Enrichment struct {
	Location string   `json:"location,omitempty"`
	Salary   string   `json:"salary,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Enricher is the external classification collaborator. Implementations must
// respect ctx; callers always carry a per-call timeout and fall back to the
// heuristic path on error.
type Enricher interface {
	Classify(ctx context.Context, title, description string) (Enrichment, error)
}

type HTTPEnricher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Limiter *rate.Limiter
}

func NewHTTPEnricher(baseURL, apiKey string, reqPerSec float64) *HTTPEnricher {
	if reqPerSec <= 0 {
		reqPerSec = 2
	}
	return &HTTPEnricher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

func (e *HTTPEnricher) Classify(ctx context.Context, title, description string) (Enrichment, error) {
	if err := e.Limiter.Wait(ctx); err != nil {
		return Enrichment{}, err
	}

	body, err := json.Marshal(map[string]string{
		"title":       title,
		"description": description,
	})
	if err != nil {
		return Enrichment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Enrichment{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.APIKey)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return Enrichment{}, fmt.Errorf("classify call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Enrichment{}, fmt.Errorf("classify call: unexpected status %d", resp.StatusCode)
	}

	var out Enrichment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Enrichment{}, fmt.Errorf("classify decode: %w", err)
	}
	return out, nil
}
