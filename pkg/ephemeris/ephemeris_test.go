package ephemeris

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestBuiltinSunMotion(t *testing.T) {
	p := NewBuiltinProvider()

	// The Sun advances roughly one degree per day year-round.
	for month := 1; month <= 12; month++ {
		at := time.Date(2023, time.Month(month), 15, 12, 0, 0, 0, time.UTC)
		pos, err := p.Position(at, Sun)
		if err != nil {
			t.Fatalf("Position(%v, Sun): %v", at, err)
		}
		if pos.Longitude < 0 || pos.Longitude >= 360 {
			t.Errorf("month %d: longitude %.4f out of [0,360)", month, pos.Longitude)
		}
		if pos.Speed < 0.95 || pos.Speed > 1.03 {
			t.Errorf("month %d: solar speed %.4f°/day outside annual range", month, pos.Speed)
		}
	}
}

func TestBuiltinMoonMotion(t *testing.T) {
	p := NewBuiltinProvider()
	at := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	pos, err := p.Position(at, Moon)
	if err != nil {
		t.Fatal(err)
	}
	// Lunar daily motion stays between roughly 11.75 and 15.4 degrees.
	if pos.Speed < 11 || pos.Speed > 16 {
		t.Errorf("lunar speed %.3f°/day outside physical range", pos.Speed)
	}
}

func TestBuiltinMarsRetrograde(t *testing.T) {
	p := NewBuiltinProvider()

	// Mars was retrograde around its 2022-12-08 opposition.
	pos, err := p.Position(time.Date(2022, 12, 8, 0, 0, 0, 0, time.UTC), Mars)
	if err != nil {
		t.Fatal(err)
	}
	if !pos.Retrograde() {
		t.Errorf("Mars at 2022-12-08 opposition: speed %.4f, expected retrograde", pos.Speed)
	}

	// And direct half a year later.
	pos, err = p.Position(time.Date(2023, 6, 8, 0, 0, 0, 0, time.UTC), Mars)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Retrograde() {
		t.Errorf("Mars at 2023-06-08: speed %.4f, expected direct", pos.Speed)
	}
}

func TestBuiltinNodesOpposite(t *testing.T) {
	p := NewBuiltinProvider()
	at := time.Date(1995, 3, 21, 6, 0, 0, 0, time.UTC)

	rahu, err := p.Position(at, Rahu)
	if err != nil {
		t.Fatal(err)
	}
	ketu, err := p.Position(at, Ketu)
	if err != nil {
		t.Fatal(err)
	}

	diff := wrap360(ketu.Longitude - rahu.Longitude)
	if diff < 179.999 || diff > 180.001 {
		t.Errorf("Ketu-Rahu separation = %.6f, expected 180", diff)
	}
	if !rahu.Retrograde() {
		t.Errorf("mean node should always be retrograde, speed %.5f", rahu.Speed)
	}
}

func TestBuiltinDateOutOfRange(t *testing.T) {
	p := NewBuiltinProvider()

	for _, at := range []time.Time{
		time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2150, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := p.Position(at, Sun)
		if !errors.Is(err, ErrDateOutOfRange) {
			t.Errorf("Position(%v) error = %v, want ErrDateOutOfRange", at, err)
		}
	}

	// The window runs past the mean-element fit interval through 2099.
	late := time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
	if _, err := p.Position(late, Sun); err != nil {
		t.Errorf("Position(%v) error = %v, want success", late, err)
	}
}

// countingProvider counts upstream calls so cache behavior is observable.
type countingProvider struct {
	mu    sync.Mutex
	calls int
	inner Provider
}

func (c *countingProvider) Position(t time.Time, body Body) (Position, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Position(t, body)
}

func TestCacheMemoizes(t *testing.T) {
	counting := &countingProvider{inner: NewBuiltinProvider()}
	cache := NewCache(counting)
	at := time.Date(2001, 9, 9, 1, 46, 40, 0, time.UTC)

	first, err := cache.Position(at, Jupiter)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := cache.Position(at, Jupiter)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("cached position changed: %+v != %+v", again, first)
		}
	}

	if counting.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", counting.calls)
	}
	if cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, want 1", cache.Len())
	}
}

func TestParseBodyRoundTrip(t *testing.T) {
	for _, b := range Bodies {
		parsed, err := ParseBody(b.String())
		if err != nil {
			t.Fatalf("ParseBody(%q): %v", b.String(), err)
		}
		if parsed != b {
			t.Errorf("ParseBody(%q) = %v", b.String(), parsed)
		}
	}
	if _, err := ParseBody("Pluto"); err == nil {
		t.Error("ParseBody(Pluto) should fail")
	}
}
