// Package strength scores each classical planet two ways: a six-component
// composite (Shadbala, in virupa units) and the point-based Ashtakavarga
// allocation. Everything here is table lookups and arithmetic over an
// immutable chart; there is no iteration or convergence.
package strength

import (
	"fmt"
	"math"
	"time"

	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// Score is the six-component composite strength for one body, virupas.
type Score struct {
	Body ephemeris.Body `json:"body"`

	Positional  float64 `json:"positional"`
	Directional float64 `json:"directional"`
	Temporal    float64 `json:"temporal"`
	Motional    float64 `json:"motional"`
	Natural     float64 `json:"natural"`
	Aspectual   float64 `json:"aspectual"`

	Total float64 `json:"total"`
}

// Shadbala scores the seven classical bodies of the chart. The birth instant
// supplies the temporal component (weekday and day/night half).
func Shadbala(c *chart.ChartVariant, birth time.Time) ([]Score, error) {
	var out []Score
	for _, b := range ephemeris.ClassicalBodies {
		pl, ok := c.Placement(b)
		if !ok {
			return nil, fmt.Errorf("strength: %s missing from chart", b)
		}

		s := Score{
			Body:        b,
			Positional:  positionalBala(b, pl),
			Directional: directionalBala(c, b, pl),
			Temporal:    temporalBala(c, b, birth),
			Motional:    motionalBala(c, b, pl),
			Natural:     naturalBala(b),
			Aspectual:   aspectualBala(c, b, pl),
		}
		s.Total = s.Positional + s.Directional + s.Temporal + s.Motional + s.Natural + s.Aspectual
		out = append(out, s)
	}
	return out, nil
}

// positionalBala is uccha bala (distance from the debilitation point, up to
// 60 virupas at deep exaltation) plus a dignity bonus.
func positionalBala(b ephemeris.Body, pl chart.BodyPlacement) float64 {
	bala := 0.0
	if exalt, ok := zodiac.ExaltationDegree(b); ok {
		debil := zodiac.Wrap360(exalt + 180)
		bala = fold180(pl.Longitude-debil) / 3
	}
	return bala + dignityBonus[zodiac.DignityOf(b, pl.Longitude)]
}

var dignityBonus = map[zodiac.Dignity]float64{
	zodiac.Exalted:      30,
	zodiac.Moolatrikona: 22.5,
	zodiac.OwnSign:      15,
	zodiac.FriendSign:   7.5,
	zodiac.NeutralSign:  3.75,
	zodiac.EnemySign:    1.875,
	zodiac.Debilitated:  0,
}

// Each body is strongest on one angle: Mercury and Jupiter on the ascendant,
// the Moon and Venus on the 4th cusp, Saturn on the 7th, the Sun and Mars on
// the 10th.
var digHouse = map[ephemeris.Body]int{
	ephemeris.Sun:     10,
	ephemeris.Moon:    4,
	ephemeris.Mars:    10,
	ephemeris.Mercury: 1,
	ephemeris.Jupiter: 1,
	ephemeris.Venus:   4,
	ephemeris.Saturn:  7,
}

func directionalBala(c *chart.ChartVariant, b ephemeris.Body, pl chart.BodyPlacement) float64 {
	cusp := c.Cusps[digHouse[b]-1]
	return (180 - fold180(pl.Longitude-cusp)) / 3
}

// Day-strong and night-strong sets; Mercury is strong in both halves.
// With whole-sign houses the Sun above the horizon (houses 7-12) marks a
// day birth.
func temporalBala(c *chart.ChartVariant, b ephemeris.Body, birth time.Time) float64 {
	day := c.HouseOf(ephemeris.Sun) >= 7

	bala := 0.0
	switch b {
	case ephemeris.Mercury:
		bala = 60
	case ephemeris.Sun, ephemeris.Jupiter, ephemeris.Venus:
		if day {
			bala = 60
		}
	case ephemeris.Moon, ephemeris.Mars, ephemeris.Saturn:
		if !day {
			bala = 60
		}
	}

	if weekdayLord[birth.UTC().Weekday()] == b {
		bala += 45
	}
	return bala
}

var weekdayLord = map[time.Weekday]ephemeris.Body{
	time.Sunday:    ephemeris.Sun,
	time.Monday:    ephemeris.Moon,
	time.Tuesday:   ephemeris.Mars,
	time.Wednesday: ephemeris.Mercury,
	time.Thursday:  ephemeris.Jupiter,
	time.Friday:    ephemeris.Venus,
	time.Saturday:  ephemeris.Saturn,
}

// Rough upper bounds of direct daily motion, degrees per day.
var peakSpeed = map[ephemeris.Body]float64{
	ephemeris.Mars:    0.8,
	ephemeris.Mercury: 2.2,
	ephemeris.Jupiter: 0.25,
	ephemeris.Venus:   1.3,
	ephemeris.Saturn:  0.14,
}

// motionalBala: the Moon scores its paksha (waxing arc), the Sun a flat
// mean, and the planets score slowness, with retrogradation at full value.
func motionalBala(c *chart.ChartVariant, b ephemeris.Body, pl chart.BodyPlacement) float64 {
	switch b {
	case ephemeris.Sun:
		return 30
	case ephemeris.Moon:
		sun, ok := c.Placement(ephemeris.Sun)
		if !ok {
			return 0
		}
		elong := zodiac.AngularDistance(sun.Longitude, pl.Longitude)
		if elong > 180 {
			elong = 360 - elong
		}
		return elong / 3
	}

	if pl.Retrograde {
		return 60
	}
	peak := peakSpeed[b]
	bala := 60 * (1 - pl.Speed/peak)
	return math.Max(0, math.Min(60, bala))
}

// naturalBala is the fixed luminosity ordering, Sun brightest.
var naturalOrder = map[ephemeris.Body]float64{
	ephemeris.Sun:     7,
	ephemeris.Moon:    6,
	ephemeris.Venus:   5,
	ephemeris.Jupiter: 4,
	ephemeris.Mercury: 3,
	ephemeris.Mars:    2,
	ephemeris.Saturn:  1,
}

func naturalBala(b ephemeris.Body) float64 {
	return 60 * naturalOrder[b] / 7
}

// aspectualBala sums sputa drishti contributions from the other classical
// bodies: benefics add a quarter of the aspect value, malefics subtract it.
func aspectualBala(c *chart.ChartVariant, b ephemeris.Body, pl chart.BodyPlacement) float64 {
	bala := 0.0
	for _, other := range ephemeris.ClassicalBodies {
		if other == b {
			continue
		}
		op, ok := c.Placement(other)
		if !ok {
			continue
		}
		v := drishtiValue(zodiac.AngularDistance(op.Longitude, pl.Longitude))
		if zodiac.IsNaturalBenefic(other) {
			bala += v / 4
		} else {
			bala -= v / 4
		}
	}
	return bala
}

// drishtiValue is the classical piecewise aspect-strength function of the
// forward separation from the aspecting body, peaking at the opposition.
func drishtiValue(d float64) float64 {
	switch {
	case d < 30:
		return 0
	case d < 60:
		return (d - 30) / 2
	case d < 90:
		return d - 45
	case d < 120:
		return 45 - (d-90)/2
	case d < 150:
		return 30 - (d - 120)
	case d < 180:
		return 2 * (d - 150)
	case d <= 300:
		return 60 - (d-180)/2
	}
	return 0
}

// fold180 reduces a separation to [0, 180].
func fold180(d float64) float64 {
	d = zodiac.Wrap360(d)
	if d > 180 {
		d = 360 - d
	}
	return d
}
