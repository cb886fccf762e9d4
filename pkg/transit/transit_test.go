package transit

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

// scriptedProvider drives Saturn along a piecewise-linear sidereal path:
// direct through a Capricorn-Aquarius ingress near day 125, retrograde back
// into Capricorn at day 300, direct again across the boundary at day 335.
type scriptedProvider struct {
	epoch time.Time
}

func (p scriptedProvider) Position(t time.Time, b ephemeris.Body) (ephemeris.Position, error) {
	d := t.Sub(p.epoch).Hours() / 24
	var lon float64
	switch {
	case d < 200:
		lon = 295 + 0.04*d
	case d < 320:
		lon = 303 - 0.03*(d-200)
	default:
		lon = 299.4 + 0.04*(d-320)
	}
	// The scanner subtracts the ayanamsa, so publish tropical longitudes.
	return ephemeris.Position{Longitude: zodiac.Wrap360(lon + zodiac.Lahiri.Degrees(t))}, nil
}

// stepProvider holds a sidereal longitude until an instant, then jumps past
// the sign boundary, so the refined crossing lands exactly on the step.
type stepProvider struct {
	at time.Time
}

func (p stepProvider) Position(t time.Time, b ephemeris.Body) (ephemeris.Position, error) {
	lon := 295.0
	if !t.Before(p.at) {
		lon = 305
	}
	return ephemeris.Position{Longitude: zodiac.Wrap360(lon + zodiac.Lahiri.Degrees(t))}, nil
}

type failingProvider struct{}

func (failingProvider) Position(time.Time, ephemeris.Body) (ephemeris.Position, error) {
	return ephemeris.Position{}, ephemeris.ErrDateOutOfRange
}

func natalWithMoon(sign zodiac.Sign) *chart.ChartVariant {
	pos := zodiac.Classify(float64(sign)*30 + 15)
	return &chart.ChartVariant{
		Tag:           "D1",
		HouseSystem:   chart.WholeSign,
		AscendantSign: zodiac.Aries,
		Bodies: []chart.BodyPlacement{
			{Body: ephemeris.Moon, Position: pos, House: zodiac.Aries.DistanceTo(sign)},
		},
	}
}

func days(n float64) time.Duration {
	return time.Duration(n * 24 * float64(time.Hour))
}

func TestAnalyzeRetrogradeReentry(t *testing.T) {
	epoch := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := scriptedProvider{epoch: epoch}

	windows, err := Analyze(provider, natalWithMoon(zodiac.Aquarius), Options{
		From:     epoch,
		Horizon:  days(500),
		Ayanamsa: zodiac.Lahiri,
		Bodies:   []ephemeris.Body{ephemeris.Saturn},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var ingress, sade []Window
	for _, w := range windows {
		switch w.Type {
		case SignTransit:
			ingress = append(ingress, w)
		case SadeSati:
			sade = append(sade, w)
		}
	}

	wantSigns := []zodiac.Sign{zodiac.Capricorn, zodiac.Aquarius, zodiac.Capricorn, zodiac.Aquarius}
	if len(ingress) != len(wantSigns) {
		t.Fatalf("got %d ingress windows, want %d: %+v", len(ingress), len(wantSigns), ingress)
	}
	for i, w := range ingress {
		if w.Sign != wantSigns[i] {
			t.Errorf("window %d in %s, want %s", i, w.Sign, wantSigns[i])
		}
		if w.Phase != 0 {
			t.Errorf("ingress window %d carries phase %d", i, w.Phase)
		}
	}

	// Crossings scripted at days 125, 300 and 335, refined to the minute.
	for i, wantDay := range []float64{125, 300, 335} {
		got := ingress[i].End.Sub(epoch).Hours() / 24
		if math.Abs(got-wantDay) > 0.01 {
			t.Errorf("crossing %d at day %.4f, want %.0f", i, got, wantDay)
		}
	}

	// Windows tile the horizon.
	if !ingress[0].Start.Equal(epoch) {
		t.Errorf("first window starts %v, want %v", ingress[0].Start, epoch)
	}
	for i := 1; i < len(ingress); i++ {
		if !ingress[i].Start.Equal(ingress[i-1].End) {
			t.Errorf("gap between windows %d and %d", i-1, i)
		}
	}
	if !ingress[len(ingress)-1].End.Equal(epoch.Add(days(500))) {
		t.Errorf("last window ends %v, want horizon end", ingress[len(ingress)-1].End)
	}

	// Aquarius Moon: Capricorn is the 12th (phase 1), Aquarius the Moon
	// sign itself (phase 2). Every Saturn window is inside Sade Sati here.
	wantPhases := []int{1, 2, 1, 2}
	if len(sade) != len(wantPhases) {
		t.Fatalf("got %d sade sati windows, want %d", len(sade), len(wantPhases))
	}
	for i, w := range sade {
		if w.Phase != wantPhases[i] {
			t.Errorf("sade sati window %d phase = %d, want %d", i, w.Phase, wantPhases[i])
		}
		if !w.Start.Equal(ingress[i].Start) || !w.End.Equal(ingress[i].End) {
			t.Errorf("sade sati window %d not aligned with its ingress window", i)
		}
	}
}

func TestAnalyzeOutsideSadeSati(t *testing.T) {
	epoch := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := scriptedProvider{epoch: epoch}

	// Leo Moon: Capricorn and Aquarius are the 6th and 7th from it.
	windows, err := Analyze(provider, natalWithMoon(zodiac.Leo), Options{
		From:    epoch,
		Horizon: days(100),
		Bodies:  []ephemeris.Body{ephemeris.Saturn},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, w := range windows {
		if w.Type == SadeSati {
			t.Fatalf("unexpected sade sati window: %+v", w)
		}
	}
}

func TestAnalyzeCrossingOnHorizonEnd(t *testing.T) {
	// A crossing that refines to the horizon end must not leave a trailing
	// zero-width window for the entered sign.
	epoch := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	end := epoch.Add(days(100))
	provider := stepProvider{at: end}

	windows, err := Analyze(provider, natalWithMoon(zodiac.Leo), Options{
		From:     epoch,
		Horizon:  days(100),
		Ayanamsa: zodiac.Lahiri,
		Bodies:   []ephemeris.Body{ephemeris.Saturn},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var ingress []Window
	for _, w := range windows {
		if !w.Start.Before(w.End) {
			t.Errorf("zero-width window: %+v", w)
		}
		if w.Type == SignTransit {
			ingress = append(ingress, w)
		}
	}
	if len(ingress) != 1 {
		t.Fatalf("got %d ingress windows, want 1: %+v", len(ingress), ingress)
	}
	if ingress[0].Sign != zodiac.Capricorn {
		t.Errorf("window sign = %v, want Capricorn", ingress[0].Sign)
	}
	if !ingress[0].Start.Equal(epoch) || !ingress[0].End.Equal(end) {
		t.Errorf("window [%v, %v), want [%v, %v)", ingress[0].Start, ingress[0].End, epoch, end)
	}
}

func TestSadeSatiPhase(t *testing.T) {
	tests := []struct {
		moon, transited zodiac.Sign
		want            int
	}{
		{zodiac.Aquarius, zodiac.Capricorn, 1},
		{zodiac.Aquarius, zodiac.Aquarius, 2},
		{zodiac.Aquarius, zodiac.Pisces, 3},
		{zodiac.Aquarius, zodiac.Aries, 0},
		{zodiac.Aries, zodiac.Pisces, 1},
		{zodiac.Aries, zodiac.Libra, 0},
	}
	for _, tc := range tests {
		if got := sadeSatiPhase(tc.moon, tc.transited); got != tc.want {
			t.Errorf("sadeSatiPhase(%s, %s) = %d, want %d", tc.moon, tc.transited, got, tc.want)
		}
	}
}

func TestDoubleTransits(t *testing.T) {
	epoch := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(d float64) time.Time { return epoch.Add(days(d)) }
	win := func(b ephemeris.Body, s zodiac.Sign, from, to float64) Window {
		return Window{Type: SignTransit, Body: b, Sign: s, Start: at(from), End: at(to)}
	}

	// Aries Moon. Saturn in Capricorn sits in the 10th and aspects the
	// 12th, 4th and 7th. Jupiter in Taurus touches 2, 6, 8, 10; in Gemini
	// it touches 3, 7, 9, 11. Shared houses: 10 while Jupiter is in
	// Taurus, 7 while in Gemini. The split Taurus windows must merge.
	windows := []Window{
		win(ephemeris.Saturn, zodiac.Capricorn, 0, 400),
		win(ephemeris.Jupiter, zodiac.Taurus, 100, 150),
		win(ephemeris.Jupiter, zodiac.Taurus, 150, 200),
		win(ephemeris.Jupiter, zodiac.Gemini, 200, 300),
	}

	got := DoubleTransits(windows, zodiac.Aries)
	want := []DoubleTransit{
		{House: 10, Sign: zodiac.Capricorn, Start: at(100), End: at(200)},
		{House: 7, Sign: zodiac.Libra, Start: at(200), End: at(300)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d double transits, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].House != want[i].House || got[i].Sign != want[i].Sign ||
			!got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("double transit %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAnalyzeValidation(t *testing.T) {
	epoch := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := Analyze(scriptedProvider{epoch: epoch}, natalWithMoon(zodiac.Leo), Options{}); err == nil {
		t.Error("expected error for zero start time")
	}

	noMoon := &chart.ChartVariant{Tag: "D1", AscendantSign: zodiac.Aries}
	if _, err := Analyze(scriptedProvider{epoch: epoch}, noMoon, Options{From: epoch}); !errors.Is(err, ErrNoMoon) {
		t.Errorf("want ErrNoMoon, got %v", err)
	}

	_, err := Analyze(failingProvider{}, natalWithMoon(zodiac.Leo), Options{
		From:   epoch,
		Bodies: []ephemeris.Body{ephemeris.Saturn},
	})
	if !errors.Is(err, ephemeris.ErrDateOutOfRange) {
		t.Errorf("provider error not propagated, got %v", err)
	}
}
