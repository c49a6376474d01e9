package ai

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	rpdf "rsc.io/pdf"
)

// maxPDFPages bounds the pages read from a bid packet. The prompt is cut
// well before this, and packets often append hundreds of plan sheets.
const maxPDFPages = 60

// lineTolerance is the vertical distance, in points, within which text
// fragments are treated as one line.
const lineTolerance = 2.0

// extractPDFText returns the document text, one output line per visual line
// of each page. rsc.io/pdf panics on some malformed files; that is reported
// as an error.
func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	pages := min(reader.NumPage(), maxPDFPages)
	for n := 1; n <= pages; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		writePageLines(&sb, page.Content().Text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// writePageLines joins fragments in content order, breaking the line when
// the baseline moves.
func writePageLines(sb *strings.Builder, frags []rpdf.Text) {
	lastY := math.NaN()
	lastEnd := 0.0
	for _, f := range frags {
		switch {
		case math.IsNaN(lastY):
		case math.Abs(f.Y-lastY) > lineTolerance:
			sb.WriteString("\n")
		case f.X-lastEnd > f.FontSize*0.2:
			sb.WriteString(" ")
		}
		sb.WriteString(f.S)
		lastY = f.Y
		lastEnd = f.X + f.W
	}
}
