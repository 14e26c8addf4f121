package main

import (
	"testing"

	"github.com/nandanugg/canvass/sdk/geo"
)

func TestJitter_StaysWithinRadius(t *testing.T) {
	center := geo.Coordinates{Latitude: -6.1754, Longitude: 106.8272}
	for i := 0; i < 1000; i++ {
		p := jitter(center, 30)
		// planar offset vs haversine differ slightly at this scale
		if d := geo.Distance(center, p); d > 30.5 {
			t.Fatalf("point %s is %.2fm away, expected <= 30m", p, d)
		}
	}
}
