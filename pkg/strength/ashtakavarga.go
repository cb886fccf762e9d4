package strength

import (
	"fmt"

	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// BodyBindus is one body's individual (bhinna) chart: bindus per house
// counted from the ascendant, each cell 0 to 8.
type BodyBindus struct {
	Body   ephemeris.Body `json:"body"`
	Houses [12]int        `json:"houses"`
	Total  int            `json:"total"`
}

// Ashtakavarga holds the individual charts in canonical body order and the
// combined (sarva) chart. The grand total of a complete set is always 337.
type Ashtakavarga struct {
	Bhinna []BodyBindus `json:"bhinna"`
	Sarva  [12]int      `json:"sarva"`
	Total  int          `json:"total"`
}

// Reference points contributing bindus, in table row order: the seven
// classical bodies and then the ascendant.
const ascendantRef = 7

// Parasharan benefic places per contributing reference. beneficPlaces[body]
// has eight rows (Sun..Saturn, then ascendant); entries are houses counted
// from the reference's sign.
var beneficPlaces = map[ephemeris.Body][8][]int{
	ephemeris.Sun: {
		{1, 2, 4, 7, 8, 9, 10, 11}, // from Sun
		{3, 6, 10, 11},             // from Moon
		{1, 2, 4, 7, 8, 9, 10, 11}, // from Mars
		{3, 5, 6, 9, 10, 11, 12},   // from Mercury
		{5, 6, 9, 11},              // from Jupiter
		{6, 7, 12},                 // from Venus
		{1, 2, 4, 7, 8, 9, 10, 11}, // from Saturn
		{3, 4, 6, 10, 11, 12},      // from ascendant
	},
	ephemeris.Moon: {
		{3, 6, 7, 8, 10, 11},
		{1, 3, 6, 7, 10, 11},
		{2, 3, 5, 6, 9, 10, 11},
		{1, 3, 4, 5, 7, 8, 10, 11},
		{1, 4, 7, 8, 10, 11, 12},
		{3, 4, 5, 7, 9, 10, 11},
		{3, 5, 6, 11},
		{3, 6, 10, 11},
	},
	ephemeris.Mars: {
		{3, 5, 6, 10, 11},
		{3, 6, 11},
		{1, 2, 4, 7, 8, 10, 11},
		{3, 5, 6, 11},
		{6, 10, 11, 12},
		{6, 8, 11, 12},
		{1, 4, 7, 8, 9, 10, 11},
		{1, 3, 6, 10, 11},
	},
	ephemeris.Mercury: {
		{5, 6, 9, 11, 12},
		{2, 4, 6, 8, 10, 11},
		{1, 2, 4, 7, 8, 9, 10, 11},
		{1, 3, 5, 6, 9, 10, 11, 12},
		{6, 8, 11, 12},
		{1, 2, 3, 4, 5, 8, 9, 11},
		{1, 2, 4, 7, 8, 9, 10, 11},
		{1, 2, 4, 6, 8, 10, 11},
	},
	ephemeris.Jupiter: {
		{1, 2, 3, 4, 7, 8, 9, 10, 11},
		{2, 5, 7, 9, 11},
		{1, 2, 4, 7, 8, 10, 11},
		{1, 2, 4, 5, 6, 9, 10, 11},
		{1, 2, 3, 4, 7, 8, 10, 11},
		{2, 5, 6, 9, 10, 11},
		{3, 5, 6, 12},
		{1, 2, 4, 5, 6, 7, 9, 10, 11},
	},
	ephemeris.Venus: {
		{8, 11, 12},
		{1, 2, 3, 4, 5, 8, 9, 11, 12},
		{3, 5, 6, 9, 11, 12},
		{3, 5, 6, 9, 11},
		{5, 8, 9, 10, 11},
		{1, 2, 3, 4, 5, 8, 9, 10, 11},
		{3, 4, 5, 8, 9, 10, 11},
		{1, 2, 3, 4, 5, 8, 9, 11},
	},
	ephemeris.Saturn: {
		{1, 2, 4, 7, 8, 10, 11},
		{3, 6, 11},
		{3, 5, 6, 10, 11, 12},
		{6, 8, 9, 10, 11, 12},
		{5, 6, 11, 12},
		{6, 11, 12},
		{3, 5, 6, 11},
		{1, 3, 4, 6, 10, 11},
	},
}

// ComputeAshtakavarga builds the seven individual charts and their combined
// chart from a rasi chart.
func ComputeAshtakavarga(c *chart.ChartVariant) (*Ashtakavarga, error) {
	refSigns := make([]zodiac.Sign, 8)
	for i, b := range ephemeris.ClassicalBodies {
		pl, ok := c.Placement(b)
		if !ok {
			return nil, fmt.Errorf("strength: %s missing from chart", b)
		}
		refSigns[i] = pl.Sign
	}
	refSigns[ascendantRef] = c.AscendantSign

	av := &Ashtakavarga{}
	for _, target := range ephemeris.ClassicalBodies {
		bb := BodyBindus{Body: target}
		for ref, houses := range beneficPlaces[target] {
			for _, h := range houses {
				sign := refSigns[ref].Add(h - 1)
				slot := c.HouseFromSign(sign) - 1
				bb.Houses[slot]++
			}
		}
		for _, n := range bb.Houses {
			if n > 8 {
				return nil, fmt.Errorf("strength: bindu count %d exceeds reference count", n)
			}
			bb.Total += n
		}
		av.Bhinna = append(av.Bhinna, bb)
	}

	for _, bb := range av.Bhinna {
		for i, n := range bb.Houses {
			av.Sarva[i] += n
		}
		av.Total += bb.Total
	}
	return av, nil
}
