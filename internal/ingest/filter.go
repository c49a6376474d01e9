package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/david/bid-finder/internal/models"
)

// QueryTokens splits a query on whitespace, lowercases it and drops tokens of
// two characters or fewer.
func QueryTokens(query string) []string {
	var tokens []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// FilterByQuery keeps the bids whose title, trades or agency contain any query
// token. A query without usable tokens keeps everything.
func FilterByQuery(bids []models.Bid, query string) []models.Bid {
	tokens := QueryTokens(query)
	out := make([]models.Bid, 0, len(bids))
	for _, b := range bids {
		if len(tokens) == 0 || matchesAny(searchText(b), tokens) {
			out = append(out, b)
		}
	}
	return out
}

// FilterWithFallback filters by query but returns the full set when nothing
// matches, so a search that found bids never shows zero results.
func FilterWithFallback(bids []models.Bid, query string) ([]models.Bid, bool) {
	filtered := FilterByQuery(bids, query)
	if len(filtered) == 0 {
		return bids, false
	}
	return filtered, true
}

func searchText(b models.Bid) string {
	return strings.ToLower(b.Title + " " + strings.Join(b.Trades, " ") + " " + b.Agency)
}

func matchesAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
