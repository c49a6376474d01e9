package alert

import (
	"errors"
	"strings"
)

// ErrMissingFields is returned when the recipient or bid title is blank.
var ErrMissingFields = errors.New("Email and bid title are required")

// Request is a bid alert as submitted by the chat front-end.
type Request struct {
	Email    string `json:"email"`
	BidTitle string `json:"bidTitle"`
	Agency   string `json:"agency"`
	DueDate  string `json:"dueDate"`
	Budget   string `json:"budget"`
	URL      string `json:"url"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.BidTitle) == "" {
		return ErrMissingFields
	}
	return nil
}

// WithDefaults fills the optional fields with their display placeholders.
func (r Request) WithDefaults() Request {
	if r.Agency == "" {
		r.Agency = "Unknown Agency"
	}
	if r.DueDate == "" {
		r.DueDate = "Not specified"
	}
	if r.Budget == "" {
		r.Budget = "Not specified"
	}
	if r.URL == "" {
		r.URL = "#"
	}
	return r
}
