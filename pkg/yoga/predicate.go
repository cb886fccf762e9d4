// Package yoga evaluates a versioned, data-driven rule catalog against a
// chart and reports every pattern that fires, with its strength tier and
// cancellation status. Rules are predicate trees over placements and
// relationships; the catalog is plain data (JSON-loadable) interpreted by
// one exhaustively-matched evaluator, so traditions can swap catalogs
// without touching code.
package yoga

import (
	"fmt"

	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// Kind tags a predicate variant.
type Kind string

const (
	// KindSignOf: Body occupies one of Signs.
	KindSignOf Kind = "sign_of"
	// KindHouseOf: Body occupies one of Houses, counted from the ascendant.
	KindHouseOf Kind = "house_of"
	// KindHouseFrom: Body's sign counted from From's sign lands in Houses.
	KindHouseFrom Kind = "house_from"
	// KindConjunction: all Bodies share one sign.
	KindConjunction Kind = "conjunction"
	// KindAspect: Body casts a graha drishti on Other's sign; Mutual
	// requires the aspect both ways.
	KindAspect Kind = "aspect"
	// KindDignityOf: Body's dignity is one of Dignities.
	KindDignityOf Kind = "dignity_of"
	// KindLordOfHouseIn: the lord of house House is placed in one of Houses.
	KindLordOfHouseIn Kind = "lord_of_house_in"
	// KindNodeHemming: all seven classical bodies lie on one side of the
	// Rahu-Ketu axis.
	KindNodeHemming Kind = "node_hemming"
	// KindCombust: Body is combust by the Sun.
	KindCombust Kind = "combust"

	KindAllOf Kind = "all_of"
	KindAnyOf Kind = "any_of"
	KindNot   Kind = "not"
)

// Predicate is one node of a rule's condition tree. Exactly the fields that
// its Kind requires are set; Validate rejects anything else before
// evaluation so malformed catalog entries fail closed.
type Predicate struct {
	Kind Kind `json:"kind"`

	Body      *ephemeris.Body  `json:"body,omitempty"`
	Other     *ephemeris.Body  `json:"other,omitempty"`
	From      *ephemeris.Body  `json:"from,omitempty"`
	Bodies    []ephemeris.Body `json:"bodies,omitempty"`
	Signs     []zodiac.Sign    `json:"signs,omitempty"`
	Houses    []int            `json:"houses,omitempty"`
	House     int              `json:"house,omitempty"`
	Dignities []zodiac.Dignity `json:"dignities,omitempty"`
	Mutual    bool             `json:"mutual,omitempty"`

	Sub []*Predicate `json:"sub,omitempty"`
}

// Validate checks the predicate tree is well-formed for its kinds.
func (p *Predicate) Validate() error {
	if p == nil {
		return fmt.Errorf("nil predicate")
	}
	switch p.Kind {
	case KindSignOf:
		if p.Body == nil || len(p.Signs) == 0 {
			return fmt.Errorf("%s: needs body and signs", p.Kind)
		}
	case KindHouseOf:
		if p.Body == nil || len(p.Houses) == 0 {
			return fmt.Errorf("%s: needs body and houses", p.Kind)
		}
		return validHouses(p.Kind, p.Houses)
	case KindHouseFrom:
		if p.Body == nil || p.From == nil || len(p.Houses) == 0 {
			return fmt.Errorf("%s: needs body, from and houses", p.Kind)
		}
		return validHouses(p.Kind, p.Houses)
	case KindConjunction:
		if len(p.Bodies) < 2 {
			return fmt.Errorf("%s: needs at least two bodies", p.Kind)
		}
	case KindAspect:
		if p.Body == nil || p.Other == nil {
			return fmt.Errorf("%s: needs body and other", p.Kind)
		}
	case KindDignityOf:
		if p.Body == nil || len(p.Dignities) == 0 {
			return fmt.Errorf("%s: needs body and dignities", p.Kind)
		}
	case KindLordOfHouseIn:
		if p.House < 1 || p.House > 12 || len(p.Houses) == 0 {
			return fmt.Errorf("%s: needs house 1-12 and target houses", p.Kind)
		}
		return validHouses(p.Kind, p.Houses)
	case KindNodeHemming:
		// no parameters
	case KindCombust:
		if p.Body == nil {
			return fmt.Errorf("%s: needs body", p.Kind)
		}
	case KindAllOf, KindAnyOf:
		if len(p.Sub) == 0 {
			return fmt.Errorf("%s: needs sub-predicates", p.Kind)
		}
		for _, s := range p.Sub {
			if err := s.Validate(); err != nil {
				return err
			}
		}
	case KindNot:
		if len(p.Sub) != 1 {
			return fmt.Errorf("%s: needs exactly one sub-predicate", p.Kind)
		}
		return p.Sub[0].Validate()
	default:
		return fmt.Errorf("unknown predicate kind %q", p.Kind)
	}
	return nil
}

func validHouses(kind Kind, houses []int) error {
	for _, h := range houses {
		if h < 1 || h > 12 {
			return fmt.Errorf("%s: house %d out of range", kind, h)
		}
	}
	return nil
}

// Eval interprets the predicate against a chart. The tree must have passed
// Validate; a body missing from the chart simply makes its leaf false.
func (p *Predicate) Eval(c *chart.ChartVariant) bool {
	switch p.Kind {
	case KindSignOf:
		sign, ok := c.SignOf(*p.Body)
		return ok && signIn(sign, p.Signs)

	case KindHouseOf:
		return intIn(c.HouseOf(*p.Body), p.Houses)

	case KindHouseFrom:
		bodySign, ok1 := c.SignOf(*p.Body)
		fromSign, ok2 := c.SignOf(*p.From)
		return ok1 && ok2 && intIn(fromSign.DistanceTo(bodySign), p.Houses)

	case KindConjunction:
		first, ok := c.SignOf(p.Bodies[0])
		if !ok {
			return false
		}
		for _, b := range p.Bodies[1:] {
			sign, ok := c.SignOf(b)
			if !ok || sign != first {
				return false
			}
		}
		return true

	case KindAspect:
		if Aspects(c, *p.Body, *p.Other) {
			if !p.Mutual {
				return true
			}
			return Aspects(c, *p.Other, *p.Body)
		}
		return false

	case KindDignityOf:
		pl, ok := c.Placement(*p.Body)
		if !ok {
			return false
		}
		d := zodiac.DignityOf(*p.Body, pl.Longitude)
		for _, want := range p.Dignities {
			if d == want {
				return true
			}
		}
		return false

	case KindLordOfHouseIn:
		lord := zodiac.SignLord(c.HouseSign(p.House))
		return intIn(c.HouseOf(lord), p.Houses)

	case KindNodeHemming:
		return nodeHemmed(c)

	case KindCombust:
		pl, ok := c.Placement(*p.Body)
		return ok && pl.Combust

	case KindAllOf:
		for _, s := range p.Sub {
			if !s.Eval(c) {
				return false
			}
		}
		return true

	case KindAnyOf:
		for _, s := range p.Sub {
			if s.Eval(c) {
				return true
			}
		}
		return false

	case KindNot:
		return !p.Sub[0].Eval(c)
	}
	return false
}

// nodeHemmed reports whether every classical body lies strictly within one
// half of the nodal axis (the Kaal Sarpa configuration).
func nodeHemmed(c *chart.ChartVariant) bool {
	rahu, ok := c.Placement(ephemeris.Rahu)
	if !ok {
		return false
	}
	allAhead, allBehind := true, true
	for _, b := range ephemeris.ClassicalBodies {
		pl, ok := c.Placement(b)
		if !ok {
			return false
		}
		d := zodiac.AngularDistance(rahu.Longitude, pl.Longitude)
		if d >= 180 {
			allAhead = false
		}
		if d <= 180 && d != 0 {
			allBehind = false
		}
		if d == 0 {
			// exactly conjunct the node breaks the hemming
			return false
		}
	}
	return allAhead || allBehind
}

// referencedBodies collects every body the tree mentions, deduplicated in
// canonical order; used to report a detection's participants.
func (p *Predicate) referencedBodies(set map[ephemeris.Body]bool) {
	if p.Body != nil {
		set[*p.Body] = true
	}
	if p.Other != nil {
		set[*p.Other] = true
	}
	if p.From != nil {
		set[*p.From] = true
	}
	for _, b := range p.Bodies {
		set[b] = true
	}
	for _, s := range p.Sub {
		s.referencedBodies(set)
	}
}

// countLeaves tallies leaf predicates and how many hold, for strength
// scoring. Not nodes count their inner leaf as holding when the Not holds.
func (p *Predicate) countLeaves(c *chart.ChartVariant) (total, satisfied int) {
	switch p.Kind {
	case KindAllOf, KindAnyOf:
		for _, s := range p.Sub {
			t, sat := s.countLeaves(c)
			total += t
			satisfied += sat
		}
		return total, satisfied
	default:
		if p.Eval(c) {
			return 1, 1
		}
		return 1, 0
	}
}

func signIn(s zodiac.Sign, list []zodiac.Sign) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func intIn(n int, list []int) bool {
	for _, x := range list {
		if x == n {
			return true
		}
	}
	return false
}
