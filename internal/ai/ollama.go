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
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2:latest"
)

// Completer generates text from a prompt. jsonMode asks the model to emit a
// single JSON value.
type Completer interface {
	GenerateCompletion(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

// OllamaClient talks to a local Ollama server. Extraction runs at
// temperature 0 so the same document yields the same fields.
type OllamaClient struct {
	BaseURL  string
	GenModel string
	Client   *http.Client
}

func NewOllamaClient(baseURL, genModel string) *OllamaClient {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if genModel == "" {
		genModel = defaultOllamaModel
	}
	return &OllamaClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		GenModel: genModel,
		// Long bid packets on CPU-only hosts take minutes.
		Client: &http.Client{Timeout: 5 * time.Minute},
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Format  string          `json:"format,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func (c *OllamaClient) GenerateCompletion(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	payload := generateRequest{
		Model:   c.GenModel,
		Prompt:  prompt,
		Options: generateOptions{Temperature: 0, NumCtx: 8192},
	}
	if jsonMode {
		payload.Format = "json"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	var out generateResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&out)

	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", decodeErr)
	}
	if !out.Done {
		return "", fmt.Errorf("ollama response incomplete for model %s", c.GenModel)
	}
	return out.Response, nil
}
