package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/david/bid-finder/internal/ingest"
	"github.com/david/bid-finder/internal/models"
)

// maxPromptChars bounds the document text sent to the local model.
const maxPromptChars = 24000

// OllamaExtractor extracts bid details with a local model. It downloads the
// PDF, pulls out its text and asks the model for JSON matching the schema.
type OllamaExtractor struct {
	LLM     Completer
	Fetcher ingest.Fetcher
	Logger  *zap.Logger
}

func NewOllamaExtractor(llm Completer, fetcher ingest.Fetcher, logger *zap.Logger) *OllamaExtractor {
	if fetcher == nil {
		fetcher = ingest.NewHTTPFetcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaExtractor{LLM: llm, Fetcher: fetcher, Logger: logger}
}

func (e *OllamaExtractor) ExtractBid(ctx context.Context, pdfURL string) (*models.BidDetails, error) {
	doc, err := e.Fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		return nil, fmt.Errorf("pdf download failed: %w", err)
	}
	defer doc.Body.Close()

	content, err := io.ReadAll(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("pdf read failed: %w", err)
	}

	text, err := extractPDFText(content)
	if err != nil {
		return nil, fmt.Errorf("pdf text extraction failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("pdf contains no extractable text")
	}

	return e.extractFromText(ctx, text)
}

func (e *OllamaExtractor) extractFromText(ctx context.Context, text string) (*models.BidDetails, error) {
	prompt := fmt.Sprintf(`%s

Document text:
%s

JSON Schema:
%s

Respond ONLY with a JSON object matching the schema.`, ExtractionInstructions, ingest.TruncateText(text, maxPromptChars), bidSchemaJSON)

	// JSON mode first; some models ignore it, so fall back to text mode and
	// pull the object out of the prose.
	resp, err := e.LLM.GenerateCompletion(ctx, prompt, true)
	if err == nil {
		details, parseErr := parseLLMResponse(resp)
		if parseErr == nil {
			return details, nil
		}
		e.Logger.Warn("JSON mode response did not parse, retrying in text mode", zap.Error(parseErr))
	} else {
		e.Logger.Warn("JSON mode generation failed, retrying in text mode", zap.Error(err))
	}

	resp, err = e.LLM.GenerateCompletion(ctx, prompt, false)
	if err != nil {
		return nil, err
	}

	details, err := parseLLMResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM JSON after retry: %w (response: %s)", err, ingest.TruncateText(resp, 500))
	}
	return details, nil
}

func parseLLMResponse(resp string) (*models.BidDetails, error) {
	// Clean markdown code blocks
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	if jsonStr, ok := extractFirstJSONObject(cleaned); ok {
		cleaned = jsonStr
	}

	valid, err := validateDetails([]byte(cleaned))
	if err != nil {
		return nil, err
	}

	var details models.BidDetails
	if err := json.Unmarshal(valid, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// extractFirstJSONObject finds the first outermost balanced {...}
func extractFirstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '{' {
				depth++
			} else if char == '}' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
