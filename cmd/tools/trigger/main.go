package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
)

type searchResponse struct {
	Bids []struct {
		Title string `json:"title"`
		Score int    `json:"score"`
	} `json:"bids"`
	Sources []struct {
		SourceID string `json:"source_id"`
		Bids     int    `json:"bids"`
		Error    string `json:"error"`
	} `json:"sources"`
	Filtered bool   `json:"filtered"`
	Error    string `json:"error"`
	Details  string `json:"details"`
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "API base URL")
	query := flag.String("query", "construction", "Search query")
	flag.Parse()

	body, _ := json.Marshal(map[string]string{"query": *query})
	url := strings.TrimRight(*baseURL, "/") + "/api/bids/search"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("Response Status: %s\n", resp.Status)

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("%s: %s\n", payload.Error, payload.Details)
		os.Exit(1)
	}

	for _, s := range payload.Sources {
		if s.Error != "" {
			fmt.Printf("  %-24s FAILED %s\n", s.SourceID, s.Error)
			continue
		}
		fmt.Printf("  %-24s %d bids\n", s.SourceID, s.Bids)
	}
	fmt.Printf("Bids: %d (filtered=%t)\n", len(payload.Bids), payload.Filtered)
	if len(payload.Bids) > 0 {
		fmt.Printf("Top: %q score %d\n", payload.Bids[0].Title, payload.Bids[0].Score)
	}
}
