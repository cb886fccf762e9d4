// Package transit scans a forward horizon for slow-body sign ingresses and
// derives Sade Sati phases from Saturn's windows relative to the natal Moon.
//
// Occupancy is sampled once per sidereal day and each boundary crossing is
// refined by bisection. Saturn and Jupiter never cross a sign boundary twice
// within one sample step, so a retrograde excursion back into the previous
// sign always shows up as its own window.
package transit

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// WindowType distinguishes plain ingress windows from derived ones.
type WindowType string

const (
	SignTransit WindowType = "sign_transit"
	SadeSati    WindowType = "sade_sati"
)

var ErrNoMoon = errors.New("transit: natal chart has no Moon placement")

// Window is one contiguous occupancy of a sign, clipped to the analysis
// horizon. Start is inclusive and End exclusive; a window starting exactly
// at the horizon start may have begun earlier, and one ending at the horizon
// end may run on.
type Window struct {
	Type          WindowType     `json:"type"`
	Body          ephemeris.Body `json:"body"`
	Sign          zodiac.Sign    `json:"sign"`
	HouseFromMoon int            `json:"house_from_moon"`
	Phase         int            `json:"phase,omitempty"` // Sade Sati phase 1-3
	Start         time.Time      `json:"start"`
	End           time.Time      `json:"end"`
}

// Options controls the scan. An empty body list falls back to Saturn and
// Jupiter; a zero horizon falls back to ten years.
type Options struct {
	From     time.Time
	Horizon  time.Duration
	Ayanamsa zodiac.Ayanamsa
	Bodies   []ephemeris.Body
}

const (
	sampleStep      = 24 * time.Hour
	refineTolerance = time.Minute
	defaultHorizon  = 10 * 365 * 24 * time.Hour
)

var defaultBodies = []ephemeris.Body{ephemeris.Saturn, ephemeris.Jupiter}

// Analyze scans the horizon and returns all windows sorted by start time.
// Sade Sati windows are emitted alongside the Saturn ingress windows they
// derive from.
func Analyze(provider ephemeris.Provider, natal *chart.ChartVariant, opts Options) ([]Window, error) {
	if opts.From.IsZero() {
		return nil, errors.New("transit: start time required")
	}
	if opts.Horizon <= 0 {
		opts.Horizon = defaultHorizon
	}
	bodies := opts.Bodies
	if len(bodies) == 0 {
		bodies = defaultBodies
	}

	moon, haveMoon := natal.Placement(ephemeris.Moon)
	if !haveMoon {
		return nil, ErrNoMoon
	}

	var out []Window
	for _, b := range bodies {
		windows, err := scanBody(provider, b, opts)
		if err != nil {
			return nil, fmt.Errorf("transit: scanning %s: %w", b, err)
		}
		for _, w := range windows {
			w.HouseFromMoon = moon.Sign.DistanceTo(w.Sign)
			out = append(out, w)
			if b == ephemeris.Saturn {
				if phase := sadeSatiPhase(moon.Sign, w.Sign); phase != 0 {
					ss := w
					ss.Type = SadeSati
					ss.Phase = phase
					out = append(out, ss)
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if out[i].Body != out[j].Body {
			return out[i].Body < out[j].Body
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// sadeSatiPhase maps Saturn's transited sign to a phase: 1 in the 12th from
// the natal Moon, 2 over the Moon sign, 3 in the 2nd. Zero when outside.
func sadeSatiPhase(natalMoon, transited zodiac.Sign) int {
	switch natalMoon.DistanceTo(transited) {
	case 12:
		return 1
	case 1:
		return 2
	case 2:
		return 3
	}
	return 0
}

func scanBody(provider ephemeris.Provider, b ephemeris.Body, opts Options) ([]Window, error) {
	end := opts.From.Add(opts.Horizon)

	sign, err := signAt(provider, b, opts.From, opts.Ayanamsa)
	if err != nil {
		return nil, err
	}

	var out []Window
	cur := Window{Type: SignTransit, Body: b, Sign: sign, Start: opts.From}

	prev := opts.From
	for t := opts.From.Add(sampleStep); !t.After(end); t = t.Add(sampleStep) {
		s, err := signAt(provider, b, t, opts.Ayanamsa)
		if err != nil {
			return nil, err
		}
		if s != sign {
			crossing, err := refineCrossing(provider, b, prev, t, sign, opts.Ayanamsa)
			if err != nil {
				return nil, err
			}
			cur.End = crossing
			out = append(out, cur)
			sign = s
			cur = Window{Type: SignTransit, Body: b, Sign: sign, Start: crossing}
		}
		prev = t
	}

	// A crossing refined onto the horizon itself leaves cur empty; a
	// zero-width window carries no information.
	if cur.Start.Before(end) {
		cur.End = end
		out = append(out, cur)
	}
	return out, nil
}

// refineCrossing bisects [lo, hi] for the instant the body leaves fromSign.
// lo is known to still be in fromSign and hi known to be outside it.
func refineCrossing(provider ephemeris.Provider, b ephemeris.Body, lo, hi time.Time, fromSign zodiac.Sign, ay zodiac.Ayanamsa) (time.Time, error) {
	for hi.Sub(lo) > refineTolerance {
		mid := lo.Add(hi.Sub(lo) / 2)
		s, err := signAt(provider, b, mid, ay)
		if err != nil {
			return time.Time{}, err
		}
		if s == fromSign {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil
}

func signAt(provider ephemeris.Provider, b ephemeris.Body, t time.Time, ay zodiac.Ayanamsa) (zodiac.Sign, error) {
	pos, err := provider.Position(t, b)
	if err != nil {
		return 0, err
	}
	p, err := zodiac.Normalize(pos.Longitude, ay.Degrees(t))
	if err != nil {
		return 0, err
	}
	return p.Sign, nil
}
