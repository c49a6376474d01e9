package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/david/bid-finder/internal/models"
)

//go:embed bid_schema.json
var bidSchemaJSON []byte

// ExtractionInstructions tells the extraction model what to look for in a
// bid document.
const ExtractionInstructions = "Extract detailed information from this government bid/RFP document. " +
	"Focus on: 1) What is being asked for (bid_ask), 2) Payment terms and budget (pay), " +
	"3) Contract duration and timeline (contract_length), 4) Mandatory requirements like licenses, " +
	"insurance, bonding (hard_requirements), 5) Preferred qualifications (soft_requirements), " +
	"6) Termination clauses and conditions, 7) Required trades. Be thorough and extract specific " +
	"dollar amounts, dates, and percentages where available."

// Extractor turns a bid document into structured details.
type Extractor interface {
	ExtractBid(ctx context.Context, pdfURL string) (*models.BidDetails, error)
}

// BidDetailSchema returns the JSON schema describing models.BidDetails.
func BidDetailSchema() json.RawMessage {
	return json.RawMessage(bidSchemaJSON)
}

// ExtractionError is returned when the extraction provider answers with a
// non-success status.
type ExtractionError struct {
	StatusCode int
	Body       string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction provider error: %d - %s", e.StatusCode, e.Body)
}
