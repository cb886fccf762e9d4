package transit

import (
	"sort"
	"time"

	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/yoga"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// DoubleTransit is an interval during which both Jupiter and Saturn touch
// the same house from the natal Moon, by occupancy or by graha drishti.
type DoubleTransit struct {
	House int         `json:"house"` // from the natal Moon sign
	Sign  zodiac.Sign `json:"sign"`
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
}

// DoubleTransits overlays the Jupiter and Saturn ingress windows of an
// Analyze result and reports every simultaneously touched house. Contiguous
// intervals for the same house are merged.
func DoubleTransits(windows []Window, natalMoon zodiac.Sign) []DoubleTransit {
	saturn := ingressOf(windows, ephemeris.Saturn)
	jupiter := ingressOf(windows, ephemeris.Jupiter)

	var out []DoubleTransit
	for _, s := range saturn {
		sh := touchedHouses(ephemeris.Saturn, natalMoon, s.Sign)
		for _, j := range jupiter {
			start := laterOf(s.Start, j.Start)
			end := earlierOf(s.End, j.End)
			if !start.Before(end) {
				continue
			}
			for h := range touchedHouses(ephemeris.Jupiter, natalMoon, j.Sign) {
				if !sh[h] {
					continue
				}
				out = append(out, DoubleTransit{
					House: h,
					Sign:  natalMoon.Add(h - 1),
					Start: start,
					End:   end,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].House != out[j].House {
			return out[i].House < out[j].House
		}
		return out[i].Start.Before(out[j].Start)
	})
	merged := out[:0]
	for _, dt := range out {
		n := len(merged)
		if n > 0 && merged[n-1].House == dt.House && !merged[n-1].End.Before(dt.Start) {
			if dt.End.After(merged[n-1].End) {
				merged[n-1].End = dt.End
			}
			continue
		}
		merged = append(merged, dt)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Start.Equal(merged[j].Start) {
			return merged[i].Start.Before(merged[j].Start)
		}
		return merged[i].House < merged[j].House
	})
	return merged
}

func ingressOf(windows []Window, b ephemeris.Body) []Window {
	var out []Window
	for _, w := range windows {
		if w.Type == SignTransit && w.Body == b {
			out = append(out, w)
		}
	}
	return out
}

// touchedHouses returns the houses from the natal Moon that a body occupying
// the given sign either sits in or casts drishti on.
func touchedHouses(b ephemeris.Body, natalMoon, occupied zodiac.Sign) map[int]bool {
	h := natalMoon.DistanceTo(occupied)
	touched := map[int]bool{h: true}
	for _, d := range yoga.AspectedDistances(b) {
		touched[(h+d-2)%12+1] = true
	}
	return touched
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
