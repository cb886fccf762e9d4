// Package varga derives divisional charts (D2..D60) from the primary D1
// chart. Each variant divides a sign's 30° span into equal parts and remaps
// every part to a target sign through a fixed table. Derivation is a pure
// function of the D1 chart and the variant tag, so any set of variants can
// be computed in parallel.
package varga

import (
	"errors"
	"fmt"

	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// ErrUnsupportedVariant is returned for a tag with no division rule.
var ErrUnsupportedVariant = errors.New("varga: unsupported variant")

// divisionRule maps a division index to a target sign: the count starts at
// start[sourceSign] and advances stride signs per division. Variants with
// irregular tables (D2, D30) are handled separately.
type divisionRule struct {
	parts  int
	stride int
	start  [12]zodiac.Sign
}

const (
	ar = zodiac.Aries
	ta = zodiac.Taurus
	ge = zodiac.Gemini
	cn = zodiac.Cancer
	le = zodiac.Leo
	vi = zodiac.Virgo
	li = zodiac.Libra
	sc = zodiac.Scorpio
	sg = zodiac.Sagittarius
	cp = zodiac.Capricorn
	aq = zodiac.Aquarius
	pi = zodiac.Pisces
)

// Division tables per Parashara. Index is the source sign. Variants whose
// parts do not advance by a single stride (D2, D30) use explicit part tables
// below instead.
var rules = map[string]divisionRule{
	// Drekkana: same sign, 5th and 9th from it.
	"D3": {3, 4, [12]zodiac.Sign{ar, ta, ge, cn, le, vi, li, sc, sg, cp, aq, pi}},
	// Chaturthamsa: same sign and each quarter three signs on.
	"D4": {4, 3, [12]zodiac.Sign{ar, ta, ge, cn, le, vi, li, sc, sg, cp, aq, pi}},
	// Saptamsa: odd signs count from themselves, even from the 7th.
	"D7": {7, 1, [12]zodiac.Sign{ar, sc, ge, cp, le, pi, li, ta, sg, cn, aq, vi}},
	// Navamsa: fiery from Aries, earthy from Capricorn, airy from Libra,
	// watery from Cancer.
	"D9": {9, 1, [12]zodiac.Sign{ar, cp, li, cn, ar, cp, li, cn, ar, cp, li, cn}},
	// Dasamsa: odd from the sign itself, even from the 9th.
	"D10": {10, 1, [12]zodiac.Sign{ar, cp, ge, pi, le, ta, li, cn, sg, vi, aq, sc}},
	// Dvadasamsa: always from the sign itself.
	"D12": {12, 1, [12]zodiac.Sign{ar, ta, ge, cn, le, vi, li, sc, sg, cp, aq, pi}},
	// Shodasamsa: movable from Aries, fixed from Leo, dual from Sagittarius.
	"D16": {16, 1, [12]zodiac.Sign{ar, le, sg, ar, le, sg, ar, le, sg, ar, le, sg}},
	// Vimsamsa: movable from Aries, fixed from Sagittarius, dual from Leo.
	"D20": {20, 1, [12]zodiac.Sign{ar, sg, le, ar, sg, le, ar, sg, le, ar, sg, le}},
	// Chaturvimsamsa: odd from Leo, even from Cancer.
	"D24": {24, 1, [12]zodiac.Sign{le, cn, le, cn, le, cn, le, cn, le, cn, le, cn}},
	// Bhamsa: by element, as navamsa but from Aries/Cancer/Libra/Capricorn.
	"D27": {27, 1, [12]zodiac.Sign{ar, cn, li, cp, ar, cn, li, cp, ar, cn, li, cp}},
	// Khavedamsa: odd from Aries, even from Libra.
	"D40": {40, 1, [12]zodiac.Sign{ar, li, ar, li, ar, li, ar, li, ar, li, ar, li}},
	// Akshavedamsa: movable from Aries, fixed from Leo, dual from Sagittarius.
	"D45": {45, 1, [12]zodiac.Sign{ar, le, sg, ar, le, sg, ar, le, sg, ar, le, sg}},
	// Shashtiamsa: counted from the sign itself.
	"D60": {60, 1, [12]zodiac.Sign{ar, ta, ge, cn, le, vi, li, sc, sg, cp, aq, pi}},
}

// Hora (D2): odd signs run Leo then Cancer, even signs Cancer then Leo. No
// single stride expresses both orders, so the halves are listed per parity.
var horaOdd = [2]zodiac.Sign{le, cn}

var horaEven = [2]zodiac.Sign{cn, le}

// Trimsamsa (D30) divides unevenly in the classical text; expressed here as
// thirty one-degree parts mapped through a table, odd and even signs using
// different bands (Mars/Saturn/Jupiter/Mercury/Venus rulerships).
var trimsamsaOdd = [30]zodiac.Sign{
	ar, ar, ar, ar, ar,
	aq, aq, aq, aq, aq,
	sg, sg, sg, sg, sg, sg, sg, sg,
	ge, ge, ge, ge, ge, ge, ge,
	li, li, li, li, li,
}

var trimsamsaEven = [30]zodiac.Sign{
	ta, ta, ta, ta, ta,
	vi, vi, vi, vi, vi, vi, vi,
	pi, pi, pi, pi, pi, pi, pi, pi,
	cp, cp, cp, cp, cp,
	sc, sc, sc, sc, sc,
}

// Supported returns the known variant tags in canonical order, D1 included.
func Supported() []string {
	return []string{"D1", "D2", "D3", "D4", "D7", "D9", "D10", "D12",
		"D16", "D20", "D24", "D27", "D30", "D40", "D45", "D60"}
}

// IsSupported reports whether tag has a division rule.
func IsSupported(tag string) bool {
	switch tag {
	case "D1", "D2", "D30":
		return true
	}
	_, ok := rules[tag]
	return ok
}

// TargetSign maps a D1 sign and degree-in-sign to the variant's sign.
func TargetSign(tag string, sign zodiac.Sign, degreeInSign float64) (zodiac.Sign, error) {
	if tag == "D2" {
		part := int(degreeInSign / (zodiac.SignSpan / 2))
		if part < 0 || part > 1 {
			return 0, fmt.Errorf("varga: degree %v outside sign span", degreeInSign)
		}
		if sign.IsOdd() {
			return horaOdd[part], nil
		}
		return horaEven[part], nil
	}
	if tag == "D30" {
		part := int(degreeInSign)
		if part < 0 || part > 29 {
			return 0, fmt.Errorf("varga: degree %v outside sign span", degreeInSign)
		}
		if sign.IsOdd() {
			return trimsamsaOdd[part], nil
		}
		return trimsamsaEven[part], nil
	}

	rule, ok := rules[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedVariant, tag)
	}

	span := zodiac.SignSpan / float64(rule.parts)
	part := int(degreeInSign / span)
	if part < 0 || part >= rule.parts {
		return 0, fmt.Errorf("varga: degree %v outside sign span", degreeInSign)
	}
	return rule.start[sign].Add(part * rule.stride), nil
}

// vargaLongitude synthesizes a full longitude inside the target sign by
// stretching the position within the division back over 30°. Keeps varga
// charts classifiable (nakshatra, pada) and derivation idempotent.
func vargaLongitude(tag string, target zodiac.Sign, degreeInSign float64, parts int) float64 {
	span := zodiac.SignSpan / float64(parts)
	within := degreeInSign - float64(int(degreeInSign/span))*span
	return float64(target)*zodiac.SignSpan + within/span*zodiac.SignSpan
}

func partsFor(tag string) int {
	switch tag {
	case "D2":
		return 2
	case "D30":
		return 30
	}
	return rules[tag].parts
}

// Derive computes a divisional chart from the D1 chart. Derive("D1") returns
// a copy. The result uses whole-sign houses counted from the variant's own
// ascendant sign, the classical treatment of divisional charts.
func Derive(d1 *chart.ChartVariant, tag string) (*chart.ChartVariant, error) {
	if d1 == nil {
		return nil, fmt.Errorf("varga: nil d1 chart")
	}
	if tag == "D1" {
		out := *d1
		out.Bodies = append([]chart.BodyPlacement(nil), d1.Bodies...)
		return &out, nil
	}
	if !IsSupported(tag) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVariant, tag)
	}

	ascDeg := d1.Ascendant - float64(d1.AscendantSign)*zodiac.SignSpan
	ascSign, err := TargetSign(tag, d1.AscendantSign, ascDeg)
	if err != nil {
		return nil, err
	}
	ascLon := vargaLongitude(tag, ascSign, ascDeg, partsFor(tag))

	out := &chart.ChartVariant{
		Tag:           tag,
		HouseSystem:   chart.WholeSign,
		Ascendant:     ascLon,
		AscendantSign: ascSign,
	}
	for i := 0; i < 12; i++ {
		out.Cusps[i] = float64(ascSign.Add(i)) * zodiac.SignSpan
	}

	for _, p := range d1.Bodies {
		target, err := TargetSign(tag, p.Sign, p.DegreeInSign)
		if err != nil {
			return nil, fmt.Errorf("varga: %s in %s: %w", p.Body, tag, err)
		}
		lon := vargaLongitude(tag, target, p.DegreeInSign, partsFor(tag))
		pos := zodiac.Classify(lon)
		pos.Speed = p.Speed
		pos.Retrograde = p.Retrograde

		out.Bodies = append(out.Bodies, chart.BodyPlacement{
			Body:     p.Body,
			Position: pos,
			House:    ascSign.DistanceTo(target),
			Combust:  p.Combust,
		})
	}

	return out, nil
}
