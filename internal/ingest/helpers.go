package ingest

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// cleanText collapses runs of whitespace and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// appendUnique appends v unless the list already holds it, ignoring case.
// Blank values are dropped.
func appendUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}

// hostOf returns the host part of a URL, or the input when it does not parse.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

// TruncateText shortens text to at most maxLen bytes, marking the cut with
// "...". It never splits a UTF-8 sequence.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := maxLen
	if maxLen > 3 {
		cut = maxLen - 3
	}
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if maxLen > 3 {
		return text[:cut] + "..."
	}
	return text[:cut]
}
