// Package dasha builds the Vimshottari planetary-period tree: a fixed
// 120-year cycle recursively subdivided through five levels, every level
// using the same body sequence and year weights scaled into its parent.
// Periods are half-open [Start, End) and contiguous by construction, so the
// child-sum invariant holds to the nanosecond at every level.
package dasha

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// ErrOutOfRange is returned by ResolveCurrent for instants outside the
// 120-year cycle starting at birth.
var ErrOutOfRange = errors.New("dasha: instant outside the 120-year cycle")

// Level is the depth of a period in the tree, Maha outermost.
type Level int

const (
	Maha Level = iota + 1
	Antar
	Pratyantar
	Sookshma
	Prana
)

var levelNames = [...]string{"", "Maha", "Antar", "Pratyantar", "Sookshma", "Prana"}

func (l Level) String() string {
	if l < Maha || l > Prana {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// MaxDepth is the deepest supported subdivision level.
const MaxDepth = int(Prana)

// CycleYears is the full Vimshottari cycle length.
const CycleYears = 120.0

// yearDuration is the 365.25-day year used throughout the cycle.
const yearDuration = time.Duration(365.25 * 24 * float64(time.Hour))

// Sequence is the fixed nine-body ruling order. The lord of a nakshatra is
// Sequence[nakshatra % 9].
var Sequence = [9]ephemeris.Body{
	ephemeris.Ketu, ephemeris.Venus, ephemeris.Sun,
	ephemeris.Moon, ephemeris.Mars, ephemeris.Rahu,
	ephemeris.Jupiter, ephemeris.Saturn, ephemeris.Mercury,
}

// Years holds each sequence body's full Mahadasha allocation; sums to 120.
var Years = [9]float64{7, 20, 6, 10, 7, 18, 16, 19, 17}

// NakshatraLord returns the ruling body of a nakshatra.
func NakshatraLord(n zodiac.Nakshatra) ephemeris.Body {
	return Sequence[int(n)%9]
}

// Period is one node of the tree. End is exclusive.
type Period struct {
	Level    Level          `json:"level"`
	Body     ephemeris.Body `json:"body"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Children []*Period      `json:"children,omitempty"`
}

// Duration returns the period's length.
func (p *Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Contains reports whether t falls inside the half-open period.
func (p *Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Tree is the full period hierarchy for one birth.
type Tree struct {
	Birth   time.Time `json:"birth"`
	Depth   int       `json:"depth"`
	Periods []*Period `json:"periods"`
}

// Build computes the tree from the Moon's sidereal longitude at birth.
// The first Mahadasha is the balance of the natal nakshatra lord's period,
// proportional to the arc left in the nakshatra; the cycle then runs the
// sequence at full allocations and closes with the opening lord's elapsed
// share, so the Mahadasha durations sum to exactly 120 years.
func Build(moonLongitude float64, birth time.Time, depth int) (*Tree, error) {
	if math.IsNaN(moonLongitude) || math.IsInf(moonLongitude, 0) {
		return nil, fmt.Errorf("dasha: invalid moon longitude %v", moonLongitude)
	}
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("dasha: depth %d out of range [1, %d]", depth, MaxDepth)
	}
	if birth.IsZero() {
		return nil, fmt.Errorf("dasha: birth time is required")
	}

	lon := zodiac.Wrap360(moonLongitude)
	nak := int(lon / zodiac.NakshatraSpan)
	elapsed := (lon - float64(nak)*zodiac.NakshatraSpan) / zodiac.NakshatraSpan
	lordIdx := nak % 9

	// Mahadasha weights in years: balance of the natal lord, eight full
	// allocations, then the natal lord's consumed share closing the cycle.
	type slot struct {
		body  ephemeris.Body
		years float64
	}
	slots := []slot{{Sequence[lordIdx], (1 - elapsed) * Years[lordIdx]}}
	for j := 1; j < 9; j++ {
		idx := (lordIdx + j) % 9
		slots = append(slots, slot{Sequence[idx], Years[idx]})
	}
	if elapsed > 0 {
		slots = append(slots, slot{Sequence[lordIdx], elapsed * Years[lordIdx]})
	}

	cycle := time.Duration(CycleYears * float64(yearDuration))
	end := birth.Add(cycle)

	tree := &Tree{Birth: birth, Depth: depth}
	cum := 0.0
	prev := birth
	for i, s := range slots {
		cum += s.years
		bound := birth.Add(time.Duration(cum / CycleYears * float64(cycle)))
		if i == len(slots)-1 {
			bound = end // close the cycle exactly
		}
		p := &Period{Level: Maha, Body: s.body, Start: prev, End: bound}
		subdivide(p, depth)
		tree.Periods = append(tree.Periods, p)
		prev = bound
	}

	if err := Verify(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// subdivide splits a period into nine children carrying the sequence from
// the parent's own body, weights scaled into the parent's span.
func subdivide(parent *Period, depth int) {
	if int(parent.Level) >= depth {
		return
	}
	parentIdx := sequenceIndex(parent.Body)
	span := float64(parent.Duration())

	cum := 0.0
	prev := parent.Start
	for j := 0; j < 9; j++ {
		idx := (parentIdx + j) % 9
		cum += Years[idx]
		bound := parent.Start.Add(time.Duration(cum / CycleYears * span))
		if j == 8 {
			bound = parent.End
		}
		child := &Period{
			Level: parent.Level + 1,
			Body:  Sequence[idx],
			Start: prev,
			End:   bound,
		}
		subdivide(child, depth)
		parent.Children = append(parent.Children, child)
		prev = bound
	}
}

func sequenceIndex(b ephemeris.Body) int {
	for i, s := range Sequence {
		if s == b {
			return i
		}
	}
	return 0
}

// Verify walks the whole tree checking the structural invariants: contiguous
// half-open children spanning their parent exactly, and Mahadashas spanning
// exactly 120 years from birth. A failure is an internal defect, not a
// recoverable condition.
func Verify(tree *Tree) error {
	if len(tree.Periods) == 0 {
		return fmt.Errorf("dasha: empty tree")
	}
	cycle := time.Duration(CycleYears * float64(yearDuration))

	first := tree.Periods[0]
	last := tree.Periods[len(tree.Periods)-1]
	if !first.Start.Equal(tree.Birth) {
		return fmt.Errorf("dasha: cycle starts at %v, not birth %v", first.Start, tree.Birth)
	}
	if got := last.End.Sub(tree.Birth); got != cycle {
		return fmt.Errorf("dasha: mahadasha sum %v, want %v", got, cycle)
	}

	prev := tree.Birth
	for _, p := range tree.Periods {
		if !p.Start.Equal(prev) {
			return fmt.Errorf("dasha: gap before %s mahadasha at %v", p.Body, p.Start)
		}
		if err := verifyNode(p); err != nil {
			return err
		}
		prev = p.End
	}
	return nil
}

func verifyNode(p *Period) error {
	if !p.End.After(p.Start) {
		return fmt.Errorf("dasha: empty %s period %s", p.Level, p.Body)
	}
	if len(p.Children) == 0 {
		return nil
	}

	prev := p.Start
	for _, c := range p.Children {
		if !c.Start.Equal(prev) {
			return fmt.Errorf("dasha: %s/%s children not contiguous at %v", p.Level, p.Body, c.Start)
		}
		if err := verifyNode(c); err != nil {
			return err
		}
		prev = c.End
	}
	if !prev.Equal(p.End) {
		return fmt.Errorf("dasha: %s/%s children sum %v, parent ends %v", p.Level, p.Body, prev, p.End)
	}
	return nil
}

// ResolveCurrent returns the path of periods covering the query instant, one
// entry per level down to the tree's depth. An instant exactly on a period
// boundary resolves to the following period. Instants outside
// [birth, birth+120y) fail with ErrOutOfRange.
func ResolveCurrent(tree *Tree, at time.Time) ([]*Period, error) {
	if len(tree.Periods) == 0 {
		return nil, fmt.Errorf("dasha: empty tree")
	}
	if at.Before(tree.Birth) || !at.Before(tree.Periods[len(tree.Periods)-1].End) {
		return nil, fmt.Errorf("%w: %v", ErrOutOfRange, at)
	}

	var path []*Period
	periods := tree.Periods
	for len(periods) > 0 {
		// Children are time-ordered and non-overlapping: binary search for
		// the first period ending after the instant.
		i := sort.Search(len(periods), func(i int) bool {
			return at.Before(periods[i].End)
		})
		if i == len(periods) || !periods[i].Contains(at) {
			return nil, fmt.Errorf("dasha: instant %v not covered at level %d", at, len(path)+1)
		}
		path = append(path, periods[i])
		periods = periods[i].Children
	}
	return path, nil
}
