package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	budgetRegex  = regexp.MustCompile(`(?i)([\d,.]+)\s*(k|m|million|thousand)?`)
	leadingFloat = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// ParseBudget extracts a dollar amount from free text such as "$150k",
// "$5,000" or "1.2 million". Only the first numeric run is considered.
// It reports false when no positive amount can be read.
func ParseBudget(text string) (float64, bool) {
	m := budgetRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	// Only the leading numeric prefix counts: "1.2.3" reads as 1.2.
	num := leadingFloat.FindString(strings.ReplaceAll(m[1], ",", ""))
	if num == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(num, 64)
	if err != nil || amount == 0 {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "k", "thousand":
		amount *= 1_000
	case "m", "million":
		amount *= 1_000_000
	}
	return amount, true
}
