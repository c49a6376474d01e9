package ingest

import (
	"github.com/david/bid-finder/internal/models"
)

// NormalizeBid cleans a parsed record in place: whitespace is collapsed,
// required strings get defaults and trades are deduplicated.
func NormalizeBid(b *models.Bid) {
	b.Title = cleanText(b.Title)
	if b.Title == "" {
		b.Title = "Untitled Bid"
	}
	b.BidNumber = cleanText(b.BidNumber)
	b.Agency = cleanText(b.Agency)
	b.DueDate = cleanText(b.DueDate)
	b.EstimatedBudget = cleanText(b.EstimatedBudget)
	b.Location = cleanText(b.Location)

	trades := []string{}
	for _, t := range b.Trades {
		trades = appendUnique(trades, t)
	}
	b.Trades = trades
}
