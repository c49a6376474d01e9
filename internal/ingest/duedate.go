package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex   = regexp.MustCompile(`\b(20\d{2}-\d{2}-\d{2})\b`)
	usDateRegex    = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/(?:20)?\d{2})\b`)
	monthDateRegex = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept?|Oct|Nov|Dec)\.?\s+(\d{1,2}),?\s+(20\d{2})\b`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDueDate finds the first date in a free-text due date ("03/15/2025",
// "Bids due March 15, 2025 2:00 PM", "2025-03-15") and returns the end of
// that day in UTC. Slash dates are read month first.
func ParseDueDate(text string) (time.Time, bool) {
	text = cleanDateString(text)
	if text == "" {
		return time.Time{}, false
	}

	if m := isoDateRegex.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return toEndOfDay(t), true
		}
	}

	if m := usDateRegex.FindStringSubmatch(text); m != nil {
		for _, layout := range []string{"1/2/2006", "1/2/06"} {
			if t, err := time.Parse(layout, m[1]); err == nil {
				return toEndOfDay(t), true
			}
		}
	}

	if m := monthDateRegex.FindStringSubmatch(text); m != nil {
		month := monthIndex[strings.ToLower(m[1])[:3]]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if t.Day() == day {
			return toEndOfDay(t), true
		}
	}

	return time.Time{}, false
}

// DaysLeft reports whole days from now until the bid's due date, negative
// once it has passed. ok is false when the due date cannot be read.
func DaysLeft(dueDate string, now time.Time) (days int, ok bool) {
	due, ok := ParseDueDate(dueDate)
	if !ok {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today).Hours() / 24), true
}

// toEndOfDay sets the time to 23:59:59.999999999 UTC.
func toEndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
}

// cleanDateString removes common labels in front of a date.
func cleanDateString(s string) string {
	prefixes := []string{
		"Bids due:", "Due date:", "Due:", "Closing date:", "Deadline:", "Bid opening:",
	}
	sLower := strings.ToLower(s)
	for _, p := range prefixes {
		if idx := strings.Index(sLower, strings.ToLower(p)); idx != -1 {
			s = s[idx+len(p):]
			sLower = sLower[idx+len(p):]
		}
	}
	return strings.TrimSpace(s)
}
