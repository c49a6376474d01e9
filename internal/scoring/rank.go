package scoring

import (
	"sort"

	"github.com/david/bid-finder/internal/models"
	"github.com/david/bid-finder/internal/profile"
)

// Rank scores every bid and orders them by descending score. Equal scores
// keep their input order.
func Rank(bids []models.Bid, p profile.Profile, query string) []models.ScoredBid {
	scored := make([]models.ScoredBid, 0, len(bids))
	for _, b := range bids {
		scored = append(scored, models.ScoredBid{Bid: b, Score: Score(b, p, query)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
