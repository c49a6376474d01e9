package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/david/bid-finder/internal/models"
)

const defaultReductoURL = "https://platform.reducto.ai"

// ReductoClient extracts bid details with the hosted document-extraction API.
// The provider downloads the PDF itself.
type ReductoClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewReductoClient(baseURL, apiKey string) *ReductoClient {
	if baseURL == "" {
		baseURL = defaultReductoURL
	}
	return &ReductoClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 3 * time.Minute},
	}
}

type extractRequest struct {
	Input        string              `json:"input"`
	Instructions extractInstructions `json:"instructions"`
}

type extractInstructions struct {
	Schema       json.RawMessage `json:"schema"`
	SystemPrompt string          `json:"system_prompt"`
}

func (c *ReductoClient) ExtractBid(ctx context.Context, pdfURL string) (*models.BidDetails, error) {
	jsonData, err := json.Marshal(extractRequest{
		Input: pdfURL,
		Instructions: extractInstructions{
			Schema:       BidDetailSchema(),
			SystemPrompt: ExtractionInstructions,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/extract", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExtractionError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	payload, err := extractionPayload(body)
	if err != nil {
		return nil, err
	}

	var details models.BidDetails
	if err := json.Unmarshal(payload, &details); err != nil {
		return nil, fmt.Errorf("failed to decode extraction result: %w", err)
	}
	return &details, nil
}

// extractionPayload picks the extracted object out of a provider response:
// the first element of "result" when it is a non-empty array, else "result"
// itself, else the whole body. An empty result array yields empty details.
func extractionPayload(body []byte) (json.RawMessage, error) {
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := bytes.TrimSpace(envelope.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return body, nil
	}

	if result[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(result, &items); err != nil {
			return nil, fmt.Errorf("failed to decode result array: %w", err)
		}
		if len(items) == 0 {
			return body, nil
		}
		return items[0], nil
	}
	return result, nil
}
