package yoga

import (
	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/ephemeris"
)

// Graha drishti is sign-based: every planet aspects the 7th sign from its
// own; Mars additionally the 4th and 8th, Jupiter the 5th and 9th, Saturn
// the 3rd and 10th. The nodes cast no aspect in the default catalog's
// tradition.
var specialAspects = map[ephemeris.Body][]int{
	ephemeris.Mars:    {4, 8},
	ephemeris.Jupiter: {5, 9},
	ephemeris.Saturn:  {3, 10},
}

// AspectedDistances returns the sign counts (from the body's own sign,
// inclusive) that the body aspects.
func AspectedDistances(b ephemeris.Body) []int {
	if b.IsNode() {
		return nil
	}
	return append([]int{7}, specialAspects[b]...)
}

// Aspects reports whether body a casts a graha drishti on body b's sign.
func Aspects(c *chart.ChartVariant, a, b ephemeris.Body) bool {
	signA, ok1 := c.SignOf(a)
	signB, ok2 := c.SignOf(b)
	if !ok1 || !ok2 {
		return false
	}
	dist := signA.DistanceTo(signB)
	for _, d := range AspectedDistances(a) {
		if d == dist {
			return true
		}
	}
	return false
}
