package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mlnomadpy/dronify/internal/llm"
)

const defaultZeroShotTimeout = 30 * time.Second

// ZeroShotClient is a direct HTTP client for a zero-shot classification
// sidecar (a bart-large-mnli style pipeline served over JSON). langchaingo
// has no classification surface, so the client talks to the service
// directly.
type ZeroShotClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewZeroShotClient creates a new zero-shot classifier client.
func NewZeroShotClient(cfg llm.ClassifierConfig) *ZeroShotClient {
	timeout := defaultZeroShotTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &ZeroShotClient{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Zero-shot service request/response types

// zeroShotRequest is the request format of the classification service.
type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// zeroShotResponse is the response format of the classification service.
// Labels and scores are parallel arrays ranked best-first.
type zeroShotResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Name returns the provider name
func (c *ZeroShotClient) Name() string {
	return "zeroshot-http"
}

// ClassifySimilarity ranks the candidate labels against the input text.
func (c *ZeroShotClient) ClassifySimilarity(ctx context.Context, text string, candidates []string) ([]llm.LabelScore, error) {
	if c.endpoint == "" {
		return nil, llm.TranslateError("zeroshot-http", fmt.Errorf("no endpoint configured"))
	}

	body, err := json.Marshal(zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: candidates},
	})
	if err != nil {
		return nil, llm.TranslateError("zeroshot-http", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, llm.TranslateError("zeroshot-http", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, llm.TranslateError("zeroshot-http", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.TranslateError("zeroshot-http", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, llm.TranslateError("zeroshot-http",
			fmt.Errorf("service returned %d: %s", resp.StatusCode, respBody))
	}

	var parsed zeroShotResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, llm.TranslateError("zeroshot-http", err)
	}
	if len(parsed.Labels) != len(parsed.Scores) {
		return nil, llm.TranslateError("zeroshot-http",
			fmt.Errorf("malformed response: %d labels, %d scores", len(parsed.Labels), len(parsed.Scores)))
	}

	ranked := make([]llm.LabelScore, 0, len(parsed.Labels))
	for i, label := range parsed.Labels {
		ranked = append(ranked, llm.LabelScore{Label: label, Score: parsed.Scores[i]})
	}
	return ranked, nil
}
