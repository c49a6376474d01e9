package scoring

import (
	"math"
	"strings"

	"github.com/david/bid-finder/internal/ingest"
	"github.com/david/bid-finder/internal/models"
	"github.com/david/bid-finder/internal/profile"
)

// Sub-score weights. They sum to 1.
const (
	WeightTrades       = 0.35
	WeightRequirements = 0.25
	WeightBudget       = 0.20
	WeightRelevance    = 0.20
)

const neutralScore = 50

// Breakdown is the per-factor view of a score.
type Breakdown struct {
	Trades       int `json:"trades"`
	Requirements int `json:"requirements"`
	Budget       int `json:"budget"`
	Relevance    int `json:"relevance"`
	Total        int `json:"total"`
}

// Score rates how well bid fits the contractor and the query, 0-100.
func Score(bid models.Bid, p profile.Profile, query string) int {
	return Explain(bid, p, query).Total
}

// Explain computes every sub-score and the weighted total.
func Explain(bid models.Bid, p profile.Profile, query string) Breakdown {
	b := Breakdown{
		Trades:       TradesMatch(bid, p),
		Requirements: RequirementsFit(bid),
		Budget:       BudgetFit(bid, p),
		Relevance:    QueryRelevance(bid, query),
	}
	total := WeightTrades*float64(b.Trades) +
		WeightRequirements*float64(b.Requirements) +
		WeightBudget*float64(b.Budget) +
		WeightRelevance*float64(b.Relevance)
	b.Total = clamp(int(math.Round(total)), 0, 100)
	return b
}

// TradesMatch is the share of the bid's trades the contractor covers. A
// profile trade covers a bid trade when either contains the other,
// case-insensitively. Bids without trades score neutral.
func TradesMatch(bid models.Bid, p profile.Profile) int {
	trades := bid.Trades
	if bid.TradesRequired != nil {
		trades = bid.TradesRequired
	}
	if len(trades) == 0 {
		return neutralScore
	}

	matched := 0
	for _, t := range trades {
		tl := strings.ToLower(t)
		for _, pt := range p.Trades {
			ptl := strings.ToLower(pt)
			if strings.Contains(tl, ptl) || strings.Contains(ptl, tl) {
				matched++
				break
			}
		}
	}
	return percent(matched, len(trades))
}

// RequirementsFit penalizes hard requirements, 10 points each, at most 50.
func RequirementsFit(bid models.Bid) int {
	return 100 - min(10*len(bid.HardRequirements), 50)
}

// BudgetFit compares the bid budget with the preferred range. Amounts
// outside the range score by their ratio to the nearest bound.
func BudgetFit(bid models.Bid, p profile.Profile) int {
	amount, ok := ParseBudget(bid.BudgetText())
	if !ok {
		return neutralScore
	}

	switch {
	case amount < p.PreferredBudgetMin:
		return int(math.Round(100 * amount / p.PreferredBudgetMin))
	case amount > p.PreferredBudgetMax:
		return int(math.Round(100 * p.PreferredBudgetMax / amount))
	default:
		return 100
	}
}

// QueryRelevance is the share of query tokens found in the bid's title,
// scope and trades. A query without usable tokens scores 100.
func QueryRelevance(bid models.Bid, query string) int {
	tokens := ingest.QueryTokens(query)
	if len(tokens) == 0 {
		return 100
	}

	text := strings.ToLower(strings.Join([]string{
		bid.Title,
		bid.ScopeSummary,
		strings.Join(bid.Trades, " "),
		strings.Join(bid.TradesRequired, " "),
	}, " "))

	found := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			found++
		}
	}
	return percent(found, len(tokens))
}

func percent(n, total int) int {
	return int(math.Round(100 * float64(n) / float64(total)))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
