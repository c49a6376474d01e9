package alert

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

const defaultResendURL = "https://api.resend.com"

// ResendSender sends mail through the Resend HTTP API.
type ResendSender struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewResendSender(baseURL, apiKey string) *ResendSender {
	if baseURL == "" {
		baseURL = defaultResendURL
	}
	return &ResendSender{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ResendSender) Name() string { return "resend" }

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	jsonData, err := json.Marshal(resendEmail{From: msg.From, To: msg.To, Subject: msg.Subject, HTML: msg.HTML})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed resendResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := parsed.Message
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		return "", fmt.Errorf("Resend error: %d %s", resp.StatusCode, detail)
	}
	return parsed.ID, nil
}
