package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "Roof Re...", TruncateText("Roof Replacement", 10))
	assert.Equal(t, "Roo", TruncateText("Roof", 3))
	// "é" is two bytes; the cut backs off to a rune boundary.
	assert.Equal(t, "Caf...", TruncateText("Café Renovation", 7))
}

func TestAppendUnique(t *testing.T) {
	list := appendUnique(nil, "Roofing")
	list = appendUnique(list, " roofing ")
	list = appendUnique(list, "")
	list = appendUnique(list, "HVAC")
	assert.Equal(t, []string{"Roofing", "HVAC"}, list)
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "www.sfusd.edu", hostOf("https://www.sfusd.edu/bids"))
	assert.Equal(t, "not a url", hostOf("not a url"))
}
