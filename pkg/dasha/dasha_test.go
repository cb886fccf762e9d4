package dasha

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

var testBirth = time.Date(1990, 5, 15, 10, 30, 0, 0, time.UTC)

func TestYearsSumTo120(t *testing.T) {
	sum := 0.0
	for _, y := range Years {
		sum += y
	}
	if sum != 120 {
		t.Fatalf("allocation sum = %v, want 120", sum)
	}
}

func TestAshwiniMidpoint(t *testing.T) {
	// Moon halfway through Ashwini: first Mahadasha is Ketu with half of
	// its 7-year allocation, immediately followed by Venus in full.
	moonLon := zodiac.NakshatraSpan / 2

	tree, err := Build(moonLon, testBirth, 3)
	if err != nil {
		t.Fatal(err)
	}

	first := tree.Periods[0]
	if first.Body != ephemeris.Ketu {
		t.Fatalf("first mahadasha = %v, want Ketu", first.Body)
	}
	gotYears := first.Duration().Hours() / 24 / 365.25
	if !scalar.EqualWithinAbs(gotYears, 3.5, 1e-6) {
		t.Errorf("first mahadasha = %.8f years, want 3.5", gotYears)
	}

	second := tree.Periods[1]
	if second.Body != ephemeris.Venus {
		t.Fatalf("second mahadasha = %v, want Venus", second.Body)
	}
	gotYears = second.Duration().Hours() / 24 / 365.25
	if !scalar.EqualWithinAbs(gotYears, 20, 1e-6) {
		t.Errorf("venus mahadasha = %.8f years, want 20", gotYears)
	}

	// The cycle closes with Ketu's consumed half.
	last := tree.Periods[len(tree.Periods)-1]
	if last.Body != ephemeris.Ketu {
		t.Errorf("closing period = %v, want Ketu", last.Body)
	}
}

func TestMahadashaSumExactly120Years(t *testing.T) {
	// Property: for any moon longitude the mahadashas span exactly 120
	// years of 365.25 days, within one second.
	cycle := 120 * 365.25 * 24 * 3600.0
	for lon := 0.0; lon < 360; lon += 7.77 {
		tree, err := Build(lon, testBirth, 1)
		if err != nil {
			t.Fatalf("Build(%.2f): %v", lon, err)
		}
		last := tree.Periods[len(tree.Periods)-1]
		got := last.End.Sub(tree.Birth).Seconds()
		if math.Abs(got-cycle) > 1 {
			t.Errorf("lon %.2f: cycle = %.3fs, want %.3fs", lon, got, cycle)
		}
	}
}

func TestChildSumInvariant(t *testing.T) {
	tree, err := Build(123.456, testBirth, 5)
	if err != nil {
		t.Fatal(err)
	}

	var walk func(p *Period)
	walk = func(p *Period) {
		if len(p.Children) == 0 {
			return
		}
		var sum time.Duration
		for _, c := range p.Children {
			sum += c.Duration()
			walk(c)
		}
		if sum != p.Duration() {
			t.Fatalf("%s/%s: children sum %v != parent %v", p.Level, p.Body, sum, p.Duration())
		}
	}
	for _, p := range tree.Periods {
		if p.Level != Maha {
			t.Fatalf("top-level period has level %v", p.Level)
		}
		walk(p)
	}
}

func TestSubPeriodSequenceStartsFromParent(t *testing.T) {
	tree, err := Build(0, testBirth, 2) // Ashwini start: Ketu, no balance
	if err != nil {
		t.Fatal(err)
	}

	for _, maha := range tree.Periods {
		if len(maha.Children) != 9 {
			t.Fatalf("%v mahadasha has %d antardashas", maha.Body, len(maha.Children))
		}
		if maha.Children[0].Body != maha.Body {
			t.Errorf("%v mahadasha: first antardasha is %v, want the parent's own body",
				maha.Body, maha.Children[0].Body)
		}
	}

	// Moon at 0° Ashwini means no elapsed arc: exactly nine mahadashas.
	if len(tree.Periods) != 9 {
		t.Errorf("mahadasha count = %d, want 9", len(tree.Periods))
	}
}

func TestResolveCurrent(t *testing.T) {
	tree, err := Build(zodiac.NakshatraSpan/2, testBirth, 5)
	if err != nil {
		t.Fatal(err)
	}

	at := testBirth.AddDate(10, 0, 0)
	path, err := ResolveCurrent(tree, at)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 5 {
		t.Fatalf("path length = %d, want 5", len(path))
	}
	for i, p := range path {
		if int(p.Level) != i+1 {
			t.Errorf("path[%d] level = %v", i, p.Level)
		}
		if !p.Contains(at) {
			t.Errorf("path[%d] %v does not contain %v", i, p.Body, at)
		}
	}
	// Ten years in: Ketu's 3.5-year balance is over, Venus rules.
	if path[0].Body != ephemeris.Venus {
		t.Errorf("mahadasha at +10y = %v, want Venus", path[0].Body)
	}
}

func TestResolveCurrentBoundaryBelongsToFollowing(t *testing.T) {
	tree, err := Build(zodiac.NakshatraSpan/2, testBirth, 2)
	if err != nil {
		t.Fatal(err)
	}

	boundary := tree.Periods[0].End
	path, err := ResolveCurrent(tree, boundary)
	if err != nil {
		t.Fatal(err)
	}
	if path[0] != tree.Periods[1] {
		t.Errorf("boundary resolved to %v, want the following period %v",
			path[0].Body, tree.Periods[1].Body)
	}

	// Birth itself resolves into the first period.
	path, err = ResolveCurrent(tree, testBirth)
	if err != nil {
		t.Fatal(err)
	}
	if path[0] != tree.Periods[0] {
		t.Errorf("birth resolved to %v, want the first period", path[0].Body)
	}
}

func TestResolveCurrentOutOfRange(t *testing.T) {
	tree, err := Build(200, testBirth, 1)
	if err != nil {
		t.Fatal(err)
	}

	for _, at := range []time.Time{
		testBirth.Add(-time.Second),
		testBirth.AddDate(121, 0, 0),
		tree.Periods[len(tree.Periods)-1].End, // exact cycle end is exclusive
	} {
		if _, err := ResolveCurrent(tree, at); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ResolveCurrent(%v) error = %v, want ErrOutOfRange", at, err)
		}
	}
}

func TestBuildValidation(t *testing.T) {
	if _, err := Build(math.NaN(), testBirth, 3); err == nil {
		t.Error("NaN moon longitude accepted")
	}
	if _, err := Build(100, testBirth, 0); err == nil {
		t.Error("depth 0 accepted")
	}
	if _, err := Build(100, testBirth, 6); err == nil {
		t.Error("depth 6 accepted")
	}
	if _, err := Build(100, time.Time{}, 3); err == nil {
		t.Error("zero birth time accepted")
	}
}

func TestNakshatraLord(t *testing.T) {
	cases := []struct {
		nak  zodiac.Nakshatra
		want ephemeris.Body
	}{
		{0, ephemeris.Ketu},    // Ashwini
		{3, ephemeris.Moon},    // Rohini
		{8, ephemeris.Mercury}, // Ashlesha
		{9, ephemeris.Ketu},    // Magha wraps the sequence
		{26, ephemeris.Mercury},
	}
	for _, tt := range cases {
		if got := NakshatraLord(tt.nak); got != tt.want {
			t.Errorf("NakshatraLord(%v) = %v, want %v", tt.nak, got, tt.want)
		}
	}
}
