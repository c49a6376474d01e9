package ingest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// blockSelector lists the elements rendered as their own markdown line.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, tr, dt, dd"

// sanitizePolicy keeps structure and links but drops scripts, styles and
// event attributes before conversion.
var sanitizePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("table", "thead", "tbody", "tr", "td", "th")
	return p
}()

// HTMLToMarkdown converts a bid listing page to line-oriented markdown: one
// line per block element, table rows as "| a | b |" and links as [text](url).
// Heading markers are not emitted; the bid parser finds headings by content.
// Relative links are resolved against pageURL.
func HTMLToMarkdown(rawHTML, pageURL string) (string, error) {
	clean := sanitizePolicy.Sanitize(rawHTML)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	base, _ := url.Parse(pageURL)

	var lines []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks (a <p> inside an <li>) are rendered by their outermost block.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}

		var line string
		if goquery.NodeName(s) == "tr" {
			var cells []string
			s.Children().Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cleanText(inlineMarkdown(cell, base)))
			})
			if len(cells) == 0 {
				return
			}
			line = "| " + strings.Join(cells, " | ") + " |"
		} else {
			line = cleanText(inlineMarkdown(s, base))
		}

		if strings.Trim(line, "|# ") != "" {
			lines = append(lines, line)
		}
	})

	return strings.Join(lines, "\n"), nil
}

// inlineMarkdown renders the text of s, turning anchors into markdown links.
func inlineMarkdown(s *goquery.Selection, base *url.URL) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch {
		case goquery.NodeName(c) == "#text":
			b.WriteString(c.Get(0).Data)
		case goquery.NodeName(c) == "a":
			text := cleanText(c.Text())
			href, ok := c.Attr("href")
			if !ok || href == "" {
				b.WriteString(text)
				return
			}
			fmt.Fprintf(&b, "[%s](%s)", text, resolveHref(base, href))
		case goquery.NodeName(c) == "br":
			b.WriteString(" ")
		default:
			b.WriteString(" ")
			b.WriteString(inlineMarkdown(c, base))
			b.WriteString(" ")
		}
	})
	return b.String()
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
