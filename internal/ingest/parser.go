package ingest

import (
	"regexp"
	"strings"

	"github.com/david/bid-finder/internal/models"
)

// DefaultBidLocation is assigned to every record unless the source overrides it.
const DefaultBidLocation = "San Francisco, CA"

var (
	headingRegex       = regexp.MustCompile(`(?i)([^|]+(?:School|Project|Elementary|High School|Middle School)[^|]*?)(?:,?\s*Project\s*(?:No\.?|#)?\s*:?\s*(\d+))?`)
	projectNumberRegex = regexp.MustCompile(`(?i)Project\s*(?:No\.?|#)?\s*:?\s*(\d+)`)
	slashDateRegex     = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`)
	noticeLinkRegex    = regexp.MustCompile(`(?i)\[(?:Notice|PDF)[^\]]*\]\((https?://[^)]+)\)`)
	trailingDashRegex  = regexp.MustCompile(`[-–—]\s*$`)
)

// tradeKeywords maps lowercase keywords to canonical trade labels. Every
// keyword found on a line appends its label.
var tradeKeywords = []struct {
	label    string
	keywords []string
}{
	{"Plumbing", []string{"plumbing"}},
	{"Electrical", []string{"electrical"}},
	{"HVAC", []string{"hvac"}},
	{"Roofing", []string{"roofing"}},
	{"General Construction", []string{"construction"}},
	{"Field Work", []string{"field"}},
	{"Electrical", []string{"pa system", "pa upgrade"}},
	{"Landscaping", []string{"green", "landscap"}},
}

// ParseState is the parser's position in the input: Idle, or Accumulating a
// partial record.
type ParseState struct {
	current *models.Bid
}

// Idle is the initial state.
func Idle() ParseState { return ParseState{} }

// Accumulating reports whether a record is open and returns a copy of it.
func (s ParseState) Accumulating() (models.Bid, bool) {
	if s.current == nil {
		return models.Bid{}, false
	}
	return *s.current, true
}

// Parser turns scraped bid-listing markdown into bid records.
type Parser struct {
	Location string            // Default location for new records
	Resolver *LocationResolver // Optional; attaches coordinates when set
}

// NewParser returns a location-aware parser with the default location.
func NewParser() *Parser {
	return &Parser{Location: DefaultBidLocation, Resolver: NewLocationResolver()}
}

// Step consumes a single line. It returns the next state and the record that
// this line closed, if any. Step does not modify s.
func (p *Parser) Step(s ParseState, line, sourceURL, agency string) (ParseState, *models.Bid) {
	var flushed *models.Bid
	var cur *models.Bid
	if s.current != nil {
		c := *s.current
		c.Trades = append([]string(nil), s.current.Trades...)
		cur = &c
	}

	if m := headingRegex.FindStringSubmatch(line); m != nil && (strings.Contains(line, "Project") || strings.Contains(line, "School")) {
		if cur != nil && cur.Title != "" {
			flushed = cur
		}

		bidNumber := ""
		if n := projectNumberRegex.FindStringSubmatch(line); n != nil {
			bidNumber = n[1]
		}

		cur = &models.Bid{
			Title:     strings.TrimSpace(trailingDashRegex.ReplaceAllString(m[1], "")),
			BidNumber: bidNumber,
			Agency:    agency,
			SourceURL: sourceURL,
			Trades:    []string{},
			Location:  p.location(),
		}
	}

	if cur != nil {
		if cur.DueDate == "" {
			if dates := slashDateRegex.FindAllString(line, -1); len(dates) > 0 {
				cur.DueDate = dates[len(dates)-1]
			}
		}

		if cur.PDFURL == "" {
			if m := noticeLinkRegex.FindStringSubmatch(line); m != nil {
				cur.PDFURL = m[1]
			}
		}

		cur.Trades = append(cur.Trades, detectTrades(line)...)
	}

	return ParseState{current: cur}, flushed
}

// Finish closes the input and returns the open record, if it has a title.
func (p *Parser) Finish(s ParseState) *models.Bid {
	if s.current == nil || s.current.Title == "" {
		return nil
	}
	b := *s.current
	return &b
}

// Parse extracts bids from markdown. Malformed input produces fewer or
// partial records, never an error.
func (p *Parser) Parse(markdown, sourceURL, agency string) []models.Bid {
	bids := []models.Bid{}
	state := Idle()

	for _, line := range strings.Split(markdown, "\n") {
		var flushed *models.Bid
		state, flushed = p.Step(state, line, sourceURL, agency)
		if flushed != nil {
			bids = append(bids, *flushed)
		}
	}
	if last := p.Finish(state); last != nil {
		bids = append(bids, *last)
	}

	for i := range bids {
		NormalizeBid(&bids[i])
		if p.Resolver != nil {
			c := p.Resolver.Resolve(bids[i].Location, bids[i].Agency)
			bids[i].Latitude = c.Latitude
			bids[i].Longitude = c.Longitude
		}
	}

	return bids
}

// ParseBids parses with a default location-aware parser.
func ParseBids(markdown, sourceURL, agency string) []models.Bid {
	return NewParser().Parse(markdown, sourceURL, agency)
}

func (p *Parser) location() string {
	if p.Location == "" {
		return DefaultBidLocation
	}
	return p.Location
}

func detectTrades(line string) []string {
	lower := strings.ToLower(line)
	var found []string
	for _, t := range tradeKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, t.label)
				break
			}
		}
	}
	return found
}
