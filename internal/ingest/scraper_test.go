package ingest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirecrawlScraper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, "Bearer fc-test", r.Header.Get("Authorization"))

		var body firecrawlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://sfusd.example/bids", body.URL)
		assert.Equal(t, []string{"markdown"}, body.Formats)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":{"markdown":"Gym Project No. 4"}}`)
	}))
	defer srv.Close()

	s := NewFirecrawlScraper(srv.URL+"/", "fc-test")
	md, err := s.Scrape(context.Background(), "https://sfusd.example/bids")
	require.NoError(t, err)
	assert.Equal(t, "Gym Project No. 4", md)
}

func TestFirecrawlScraperErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http status", http.StatusPaymentRequired, `{"error":"Insufficient credits"}`, "status 402"},
		{"provider error", http.StatusOK, `{"success":false,"error":"page blocked"}`, "page blocked"},
		{"bad json", http.StatusOK, `not json`, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewFirecrawlScraper(srv.URL, "k").Scrape(context.Background(), "https://x.example")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type stubFetcher struct {
	contentType string
	body        string
	err         error
}

func (f stubFetcher) Fetch(_ context.Context, url string) (*FetchedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &FetchedDocument{
		URL:         url,
		StatusCode:  http.StatusOK,
		ContentType: f.contentType,
		Body:        io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func TestDirectScraper(t *testing.T) {
	s := NewDirectScraper(stubFetcher{
		contentType: "text/html; charset=utf-8",
		body:        `<p>Pool School Plumbing <a href="notice.pdf">Notice</a></p>`,
	})
	md, err := s.Scrape(context.Background(), "https://district.example/bids/")
	require.NoError(t, err)
	assert.Equal(t, "Pool School Plumbing [Notice](https://district.example/bids/notice.pdf)", md)

	s = NewDirectScraper(stubFetcher{contentType: "text/plain", body: "raw listing"})
	md, err = s.Scrape(context.Background(), "https://district.example/bids.txt")
	require.NoError(t, err)
	assert.Equal(t, "raw listing", md)

	s = NewDirectScraper(stubFetcher{err: assert.AnError})
	_, err = s.Scrape(context.Background(), "https://district.example")
	assert.ErrorIs(t, err, assert.AnError)
}
