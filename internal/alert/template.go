package alert

import (
	"bytes"
	"fmt"
	"html/template"
)

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #1a1a1a; font-size: 24px; margin-bottom: 20px;">New Government Bid Opportunity</h1>

    <div style="background: #f5f5f5; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
      <h2 style="color: #1a1a1a; font-size: 18px; margin: 0 0 16px 0;">{{.BidTitle}}</h2>
      <p style="margin: 8px 0; color: #4a4a4a;"><strong>Agency:</strong> {{.Agency}}</p>
      <p style="margin: 8px 0; color: #4a4a4a;"><strong>Due Date:</strong> {{.DueDate}}</p>
      <p style="margin: 8px 0; color: #4a4a4a;"><strong>Estimated Budget:</strong> {{.Budget}}</p>
    </div>

    <a href="{{.URL}}" style="display: inline-block; background-color: #0070f3; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: 500;">View Bid Details</a>

    <p style="color: #888; font-size: 12px; margin-top: 30px;">
      You're receiving this because you requested alerts for matching government bids.
    </p>
  </body>
</html>
`))

// RenderAlert returns the subject and HTML body for req. Field values are
// escaped.
func RenderAlert(req Request) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, req); err != nil {
		return "", "", fmt.Errorf("render alert: %w", err)
	}
	return "New Bid Match: " + req.BidTitle, buf.String(), nil
}
