// Package chart assembles classified sidereal positions into chart variants:
// an ascendant, twelve house cusps and a placement for each graha. The D1
// (rashi) chart built here is the immutable input for every downstream stage.
package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// HouseSystem selects how house cusps divide the ecliptic.
type HouseSystem string

const (
	// WholeSign assigns each body the house counted sign-by-sign from the
	// ascendant sign. The engine default.
	WholeSign HouseSystem = "whole-sign"
	// Equal divides the ecliptic into twelve 30° houses starting at the
	// exact ascendant degree.
	Equal HouseSystem = "equal"
)

// ParseHouseSystem validates a house-system identifier from configuration.
func ParseHouseSystem(id string) (HouseSystem, error) {
	switch HouseSystem(id) {
	case WholeSign, Equal:
		return HouseSystem(id), nil
	case "":
		return WholeSign, nil
	}
	return "", fmt.Errorf("unknown house system %q", id)
}

// BirthInput is the immutable seed of a computation: one instant, one place,
// and the classification settings. Longitude is degrees east-positive.
type BirthInput struct {
	Time        time.Time       `json:"time"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Ayanamsa    zodiac.Ayanamsa `json:"ayanamsa"`
	HouseSystem HouseSystem     `json:"house_system"`
}

// Validate checks the input before any computation starts.
func (b BirthInput) Validate() error {
	if b.Time.IsZero() {
		return fmt.Errorf("birth time is required")
	}
	if math.IsNaN(b.Latitude) || b.Latitude < -90 || b.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", b.Latitude)
	}
	if math.IsNaN(b.Longitude) || b.Longitude < -180 || b.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", b.Longitude)
	}
	if _, err := zodiac.ParseAyanamsa(string(b.Ayanamsa)); err != nil {
		return err
	}
	if _, err := ParseHouseSystem(string(b.HouseSystem)); err != nil {
		return err
	}
	return nil
}

// BodyPlacement is one graha's classified position plus its house. Combust
// is set on D1 placements once the Sun's longitude is known.
type BodyPlacement struct {
	Body ephemeris.Body `json:"body"`
	zodiac.Position
	House   int  `json:"house"`
	Combust bool `json:"combust,omitempty"`
}

// ChartVariant is one chart (D1 or a divisional variant): ascendant, cusps
// and placements. Never mutated after construction; placements are kept in
// canonical body order so serialization is reproducible byte-for-byte.
type ChartVariant struct {
	Tag           string          `json:"tag"`
	HouseSystem   HouseSystem     `json:"house_system"`
	Ascendant     float64         `json:"ascendant"`
	AscendantSign zodiac.Sign     `json:"ascendant_sign"`
	Cusps         [12]float64     `json:"cusps"`
	Bodies        []BodyPlacement `json:"bodies"`
}

// Placement returns the placement for a body.
func (c *ChartVariant) Placement(b ephemeris.Body) (BodyPlacement, bool) {
	for _, p := range c.Bodies {
		if p.Body == b {
			return p, true
		}
	}
	return BodyPlacement{}, false
}

// HouseOf returns the house of a body, or 0 if the body is not in the chart.
func (c *ChartVariant) HouseOf(b ephemeris.Body) int {
	p, ok := c.Placement(b)
	if !ok {
		return 0
	}
	return p.House
}

// SignOf returns the sign of a body; second result is false if absent.
func (c *ChartVariant) SignOf(b ephemeris.Body) (zodiac.Sign, bool) {
	p, ok := c.Placement(b)
	if !ok {
		return 0, false
	}
	return p.Sign, true
}

// HouseSign returns the sign occupying house n (1-12), counted from the
// ascendant sign.
func (c *ChartVariant) HouseSign(n int) zodiac.Sign {
	return c.AscendantSign.Add(n - 1)
}

// BodiesInHouse lists the bodies placed in house n, in canonical order.
func (c *ChartVariant) BodiesInHouse(n int) []ephemeris.Body {
	var out []ephemeris.Body
	for _, p := range c.Bodies {
		if p.House == n {
			out = append(out, p.Body)
		}
	}
	return out
}

// HouseFromSign returns the house a sign falls in, counted from the
// ascendant sign (whole-sign counting).
func (c *ChartVariant) HouseFromSign(s zodiac.Sign) int {
	return c.AscendantSign.DistanceTo(s)
}

// cuspsFor lays out twelve cusps for the given system and ascendant.
func cuspsFor(system HouseSystem, ascendant float64, ascSign zodiac.Sign) [12]float64 {
	var cusps [12]float64
	for i := 0; i < 12; i++ {
		switch system {
		case Equal:
			cusps[i] = zodiac.Wrap360(ascendant + 30*float64(i))
		default: // whole-sign: cusp is the start of the sign
			cusps[i] = float64(ascSign.Add(i)) * zodiac.SignSpan
		}
	}
	return cusps
}

// houseFor assigns a house to a sidereal longitude.
func houseFor(system HouseSystem, ascendant float64, ascSign zodiac.Sign, pos zodiac.Position) int {
	switch system {
	case Equal:
		return int(zodiac.AngularDistance(ascendant, pos.Longitude)/zodiac.SignSpan) + 1
	default:
		return ascSign.DistanceTo(pos.Sign)
	}
}

// BuildD1 computes the primary (rashi) chart for the birth input. This is
// the serialization point of a run: every other stage consumes its output.
func BuildD1(provider ephemeris.Provider, input BirthInput) (*ChartVariant, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ayan := input.Ayanamsa.Degrees(input.Time)

	tropAsc, err := TropicalAscendant(input.Time, input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}
	ascPos, err := zodiac.Normalize(tropAsc, ayan)
	if err != nil {
		return nil, err
	}

	system := input.HouseSystem
	if system == "" {
		system = WholeSign
	}

	variant := &ChartVariant{
		Tag:           "D1",
		HouseSystem:   system,
		Ascendant:     ascPos.Longitude,
		AscendantSign: ascPos.Sign,
		Cusps:         cuspsFor(system, ascPos.Longitude, ascPos.Sign),
	}

	for _, body := range ephemeris.Bodies {
		raw, err := provider.Position(input.Time, body)
		if err != nil {
			return nil, fmt.Errorf("position of %s: %w", body, err)
		}
		pos, err := zodiac.Normalize(raw.Longitude, ayan)
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", body, err)
		}
		pos.Latitude = raw.Latitude
		pos.Speed = raw.Speed
		pos.Retrograde = raw.Retrograde()

		variant.Bodies = append(variant.Bodies, BodyPlacement{
			Body:     body,
			Position: pos,
			House:    houseFor(system, ascPos.Longitude, ascPos.Sign, pos),
		})
	}

	if sun, ok := variant.Placement(ephemeris.Sun); ok {
		for i := range variant.Bodies {
			p := &variant.Bodies[i]
			p.Combust = zodiac.IsCombust(p.Body, p.Longitude, sun.Longitude, p.Retrograde)
		}
	}

	return variant, nil
}
