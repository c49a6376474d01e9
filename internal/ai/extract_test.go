package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/david/bid-finder/internal/ingest"
	"github.com/david/bid-finder/internal/models"
	"github.com/david/bid-finder/internal/profile"
	"github.com/david/bid-finder/internal/scoring"
)

func TestParseLLMResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		scope string
	}{
		{"plain", `{"scope_summary":"Roof"}`, "Roof"},
		{"code fence", "```json\n{\"scope_summary\":\"Roof\"}\n```", "Roof"},
		{"prose around", `Here is the data: {"scope_summary":"Roof {north wing}"} Hope this helps.`, "Roof {north wing}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLLMResponse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.scope, got.ScopeSummary)
		})
	}

	_, err := parseLLMResponse("no json here")
	assert.Error(t, err)
}

func TestParseLLMResponseDropsNullListItems(t *testing.T) {
	details, err := parseLLMResponse(`{"hard_requirements":["Licensed",null,null,"  "],"trades_required":[null,"HVAC"],"pay":null}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Licensed"}, details.HardRequirements)
	assert.Equal(t, []string{"HVAC"}, details.TradesRequired)
	assert.Nil(t, details.Pay)

	bid := models.Bid{Title: "Boiler Replacement"}.WithDetails(*details)
	assert.Equal(t, 90, scoring.RequirementsFit(bid))
	assert.Equal(t, 0, scoring.TradesMatch(bid, profile.Profile{Trades: []string{"Roofing"}}))
}

func TestExtractFirstJSONObject(t *testing.T) {
	got, ok := extractFirstJSONObject(`x {"a":"}\"{","b":{"c":1}} trailing {"d":2}`)
	require.True(t, ok)
	assert.Equal(t, `{"a":"}\"{","b":{"c":1}}`, got)

	_, ok = extractFirstJSONObject(`{"unterminated":`)
	assert.False(t, ok)
}

type scriptedLLM struct {
	responses []string
	errs      []error
	modes     []bool
}

func (s *scriptedLLM) GenerateCompletion(_ context.Context, prompt string, jsonMode bool) (string, error) {
	i := len(s.modes)
	s.modes = append(s.modes, jsonMode)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.responses[i], nil
}

func TestExtractFromTextFallsBackToTextMode(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"not json", `Sure! {"trades_required":["Plumbing"]}`}}
	e := NewOllamaExtractor(llm, nil, zaptest.NewLogger(t))

	details, err := e.extractFromText(context.Background(), "Bid for restroom plumbing")
	require.NoError(t, err)
	assert.Equal(t, []string{"Plumbing"}, details.TradesRequired)
	assert.Equal(t, []bool{true, false}, llm.modes)
}

func TestExtractFromTextJSONMode(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"scope_summary":"Gym floor"}`}}
	e := NewOllamaExtractor(llm, nil, zaptest.NewLogger(t))

	details, err := e.extractFromText(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Gym floor", details.ScopeSummary)
	assert.Equal(t, []bool{true}, llm.modes)
}

func TestExtractFromTextBothModesFail(t *testing.T) {
	boom := errors.New("model offline")
	llm := &scriptedLLM{errs: []error{boom, boom}}
	e := NewOllamaExtractor(llm, nil, zaptest.NewLogger(t))

	_, err := e.extractFromText(context.Background(), "text")
	assert.ErrorIs(t, err, boom)
}

type memFetcher struct {
	body string
	err  error
}

func (f memFetcher) Fetch(_ context.Context, url string) (*ingest.FetchedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ingest.FetchedDocument{URL: url, StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestOllamaExtractorRejectsInvalidPDF(t *testing.T) {
	llm := &scriptedLLM{}
	e := NewOllamaExtractor(llm, memFetcher{body: "<html>not a pdf</html>"}, zaptest.NewLogger(t))

	_, err := e.ExtractBid(context.Background(), "https://district.example/bid.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf text extraction failed")
	assert.Empty(t, llm.modes, "model is not called without text")
}

func TestOllamaExtractorDownloadError(t *testing.T) {
	e := NewOllamaExtractor(&scriptedLLM{}, memFetcher{err: assert.AnError}, zaptest.NewLogger(t))
	_, err := e.ExtractBid(context.Background(), "https://district.example/bid.pdf")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestOllamaGenerateCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"format":"json"`)
		assert.Contains(t, string(body), `"stream":false`)
		_, _ = io.WriteString(w, `{"response":"{\"scope_summary\":\"x\"}","done":true}`)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "")
	out, err := c.GenerateCompletion(context.Background(), "prompt", true)
	require.NoError(t, err)
	assert.Equal(t, `{"scope_summary":"x"}`, out)
	assert.Equal(t, "llama3.2:latest", c.GenModel)
}

func TestOllamaGenerateCompletionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"model \"llama9\" not found"}`)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(srv.URL+"/", "llama9").GenerateCompletion(context.Background(), "prompt", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "not found")
}
