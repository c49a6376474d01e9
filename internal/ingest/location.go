package ingest

import (
	"math/rand/v2"
	"strings"
)

// Coordinates is an approximate map position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type place struct {
	key    string
	coords Coordinates
}

// gazetteer is scanned in order: city keys come before the state-level
// catch-all so the more specific match wins.
var gazetteer = []place{
	{"san francisco", Coordinates{37.7749, -122.4194}},
	{"sf", Coordinates{37.7749, -122.4194}},
	{"oakland", Coordinates{37.8044, -122.2712}},
	{"berkeley", Coordinates{37.8716, -122.2727}},
	{"sacramento", Coordinates{38.5816, -121.4944}},
	{"los angeles", Coordinates{34.0522, -118.2437}},
	{"la", Coordinates{34.0522, -118.2437}},
	{"san diego", Coordinates{32.7157, -117.1611}},
	{"san jose", Coordinates{37.3382, -121.8863}},
	{"fresno", Coordinates{36.7378, -119.7871}},
	{"long beach", Coordinates{33.7701, -118.1937}},
	{"california", Coordinates{36.7783, -119.4179}},
}

// DefaultCoordinates is used when nothing in the gazetteer matches.
var DefaultCoordinates = Coordinates{37.7749, -122.4194}

// MaxJitter bounds the random offset applied to each coordinate.
const MaxJitter = 0.015

// Lookup returns the base coordinates of the first gazetteer key contained in
// location or agency. It is deterministic.
func Lookup(location, agency string) (Coordinates, bool) {
	text := strings.ToLower(location + " " + agency)
	for _, p := range gazetteer {
		if strings.Contains(text, p.key) {
			return p.coords, true
		}
	}
	return Coordinates{}, false
}

// LocationResolver places bids on the map. Coordinates are spread by a small
// random offset so markers for the same city do not overlap.
type LocationResolver struct {
	// Jitter returns a value in [0,1). Defaults to math/rand/v2.
	Jitter func() float64
}

func NewLocationResolver() *LocationResolver {
	return &LocationResolver{Jitter: rand.Float64}
}

// Resolve maps free-text location and agency to jittered coordinates,
// falling back to San Francisco.
func (r *LocationResolver) Resolve(location, agency string) Coordinates {
	base, ok := Lookup(location, agency)
	if !ok {
		base = DefaultCoordinates
	}
	return Coordinates{
		Latitude:  base.Latitude + r.offset(),
		Longitude: base.Longitude + r.offset(),
	}
}

func (r *LocationResolver) offset() float64 {
	jitter := r.Jitter
	if jitter == nil {
		jitter = rand.Float64
	}
	return (jitter() - 0.5) * 2 * MaxJitter
}
