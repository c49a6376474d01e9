package ingest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollyFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<h2>Roof Replacement Project No. 12</h2>")
	}))
	defer srv.Close()

	f := NewCollyFetcher()
	f.IgnoreRobotsTxt = true

	doc, err := f.Fetch(context.Background(), srv.URL+"/bids")
	require.NoError(t, err)
	body, _ := io.ReadAll(doc.Body)
	assert.Equal(t, "<h2>Roof Replacement Project No. 12</h2>", string(body))
	assert.Equal(t, http.StatusOK, doc.StatusCode)
	assert.Contains(t, doc.ContentType, "text/html")
}

func TestCollyFetcherErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewCollyFetcher()
	f.IgnoreRobotsTxt = true

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCollyFetcherInvalidURL(t *testing.T) {
	_, err := NewCollyFetcher().Fetch(context.Background(), "not a url")
	assert.Error(t, err)
}
