package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/bid-finder/internal/models"
	"github.com/david/bid-finder/internal/profile"
)

func TestRankIsStable(t *testing.T) {
	p := profile.Default()
	// A and B score identically; C scores lower.
	a := models.Bid{Title: "A", Trades: []string{"Plumbing"}}
	b := models.Bid{Title: "B", Trades: []string{"Roofing"}}
	c := models.Bid{Title: "C", Trades: []string{"HVAC"}}

	ranked := Rank([]models.Bid{a, b, c}, p, "")
	require.Len(t, ranked, 3)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Greater(t, ranked[1].Score, ranked[2].Score)
	assert.Equal(t, []string{"A", "B", "C"}, titles(ranked))

	ranked = Rank([]models.Bid{c, b, a}, p, "")
	assert.Equal(t, []string{"B", "A", "C"}, titles(ranked))
}

func TestRankEmpty(t *testing.T) {
	ranked := Rank(nil, profile.Default(), "roofing")
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func titles(bids []models.ScoredBid) []string {
	out := make([]string, 0, len(bids))
	for _, b := range bids {
		out = append(out, b.Title)
	}
	return out
}
