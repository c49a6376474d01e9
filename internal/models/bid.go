package models

// Bid is a government construction opportunity as extracted from a source page.
// Every string field is "" rather than absent once the parser has emitted it.
type Bid struct {
	Title           string   `json:"title"`
	BidNumber       string   `json:"bid_number"`
	Agency          string   `json:"agency"`
	DueDate         string   `json:"due_date"`         // Free text, e.g. "03/15/2025"
	EstimatedBudget string   `json:"estimated_budget"` // Free text with currency/units embedded
	Trades          []string `json:"trades"`
	Location        string   `json:"location"`
	PDFURL          string   `json:"pdf_url"`
	SourceURL       string   `json:"source_url"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`

	// Analyzed is set once BidDetails has been filled from the bid document.
	Analyzed bool `json:"analyzed"`
	BidDetails
}

// BidDetails holds the fields only a document extraction can provide.
type BidDetails struct {
	ScopeSummary       string              `json:"scope_summary,omitempty"`
	BidAsk             *BidAsk             `json:"bid_ask,omitempty"`
	Pay                *Pay                `json:"pay,omitempty"`
	ContractLength     *ContractLength     `json:"contract_length,omitempty"`
	HardRequirements   []string            `json:"hard_requirements,omitempty"`
	SoftRequirements   []string            `json:"soft_requirements,omitempty"`
	TerminationClauses *TerminationClauses `json:"termination_clauses,omitempty"`
	TradesRequired     []string            `json:"trades_required,omitempty"`
}

type BidAsk struct {
	Summary      string   `json:"summary"`
	Deliverables []string `json:"deliverables"`
}

type Pay struct {
	EstimatedBudget string `json:"estimated_budget"`
	PaymentTerms    string `json:"payment_terms"`
	Retainage       string `json:"retainage"`
}

type ContractLength struct {
	Duration   string   `json:"duration"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Milestones []string `json:"milestones"`
}

type TerminationClauses struct {
	ForCause       string `json:"for_cause"`
	ForConvenience string `json:"for_convenience"`
	NoticePeriod   string `json:"notice_period"`
}

// ScoredBid is a Bid with its 0-100 match score against a contractor profile.
type ScoredBid struct {
	Bid
	Score int `json:"score"`
}

// WithDetails returns a copy of b carrying the extracted details.
func (b Bid) WithDetails(d BidDetails) Bid {
	b.BidDetails = d
	b.Analyzed = true
	return b
}

// BudgetText returns the most specific budget text available.
func (b Bid) BudgetText() string {
	if b.Pay != nil && b.Pay.EstimatedBudget != "" {
		return b.Pay.EstimatedBudget
	}
	return b.EstimatedBudget
}
