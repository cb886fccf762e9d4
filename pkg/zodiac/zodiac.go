// Package zodiac reduces tropical ecliptic longitudes to the sidereal zodiac
// and resolves the discrete classifications built on it: sign, degree in
// sign, nakshatra and pada. All intervals are half-open [low, high), so a
// longitude landing exactly on a boundary belongs to the division it starts.
package zodiac

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAngle is returned when a longitude input is NaN or infinite.
var ErrInvalidAngle = errors.New("zodiac: invalid angle")

// Sign is a zodiac sign index, 0 = Aries .. 11 = Pisces.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

func (s Sign) String() string {
	if s < Aries || s > Pisces {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// MarshalText serializes the sign by name.
func (s Sign) MarshalText() ([]byte, error) {
	if s < Aries || s > Pisces {
		return nil, fmt.Errorf("unknown sign %d", int(s))
	}
	return []byte(signNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sign) UnmarshalText(text []byte) error {
	parsed, err := ParseSign(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSign resolves a sign by its English name.
func ParseSign(name string) (Sign, error) {
	for i, n := range signNames {
		if n == name {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sign %q", name)
}

// Add returns the sign n places forward of s, wrapping around the zodiac.
func (s Sign) Add(n int) Sign {
	return Sign(((int(s)+n)%12 + 12) % 12)
}

// DistanceTo returns the inclusive house-style count from s to other:
// 1 for the same sign, up to 12.
func (s Sign) DistanceTo(other Sign) int {
	return ((int(other)-int(s))%12+12)%12 + 1
}

// Movable/fixed/dual classification (chara, sthira, dvisvabhava).
func (s Sign) IsMovable() bool { return int(s)%3 == 0 }
func (s Sign) IsFixed() bool   { return int(s)%3 == 1 }
func (s Sign) IsDual() bool    { return int(s)%3 == 2 }

// IsOdd reports whether the sign is odd-numbered in the classical 1-based
// count (Aries, Gemini, Leo, ...).
func (s Sign) IsOdd() bool { return int(s)%2 == 0 }

// Nakshatra is a lunar-mansion index, 0 = Ashwini .. 26 = Revati.
type Nakshatra int

var nakshatraNames = [...]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

func (n Nakshatra) String() string {
	if n < 0 || int(n) >= len(nakshatraNames) {
		return fmt.Sprintf("Nakshatra(%d)", int(n))
	}
	return nakshatraNames[n]
}

// MarshalText serializes the nakshatra by name.
func (n Nakshatra) MarshalText() ([]byte, error) {
	if n < 0 || int(n) >= len(nakshatraNames) {
		return nil, fmt.Errorf("unknown nakshatra %d", int(n))
	}
	return []byte(nakshatraNames[n]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Nakshatra) UnmarshalText(text []byte) error {
	name := string(text)
	for i, cand := range nakshatraNames {
		if cand == name {
			*n = Nakshatra(i)
			return nil
		}
	}
	return fmt.Errorf("unknown nakshatra %q", name)
}

const (
	// SignSpan is the width of one sign in degrees.
	SignSpan = 30.0
	// NakshatraSpan is the width of one nakshatra in degrees (13°20').
	NakshatraSpan = 360.0 / 27.0
	// PadaSpan is a quarter nakshatra (3°20').
	PadaSpan = NakshatraSpan / 4.0
)

// Position is a fully classified sidereal position for one body.
type Position struct {
	// Longitude is the sidereal ecliptic longitude in degrees [0, 360).
	Longitude float64 `json:"longitude"`
	// Latitude is the ecliptic latitude in degrees.
	Latitude float64 `json:"latitude"`
	// Speed is the daily motion in degrees per day, negative when retrograde.
	Speed float64 `json:"speed"`

	Sign         Sign      `json:"sign"`
	DegreeInSign float64   `json:"degree_in_sign"`
	Nakshatra    Nakshatra `json:"nakshatra"`
	Pada         int       `json:"pada"`
	Retrograde   bool      `json:"retrograde"`
}

// Normalize converts a tropical longitude to a classified sidereal position
// by subtracting the ayanamsa offset. The input may be any real angle; it is
// reduced modulo 360. NaN or infinite inputs fail with ErrInvalidAngle.
func Normalize(tropicalLongitude, ayanamsa float64) (Position, error) {
	if math.IsNaN(tropicalLongitude) || math.IsInf(tropicalLongitude, 0) {
		return Position{}, fmt.Errorf("%w: longitude %v", ErrInvalidAngle, tropicalLongitude)
	}
	if math.IsNaN(ayanamsa) || math.IsInf(ayanamsa, 0) {
		return Position{}, fmt.Errorf("%w: ayanamsa %v", ErrInvalidAngle, ayanamsa)
	}

	lon := Wrap360(tropicalLongitude - ayanamsa)
	return Classify(lon), nil
}

// Classify resolves the discrete divisions for an already-sidereal longitude
// in [0, 360).
func Classify(siderealLongitude float64) Position {
	nakDeg := math.Mod(siderealLongitude, NakshatraSpan)
	return Position{
		Longitude:    siderealLongitude,
		Sign:         Sign(int(siderealLongitude / SignSpan)),
		DegreeInSign: math.Mod(siderealLongitude, SignSpan),
		Nakshatra:    Nakshatra(int(siderealLongitude / NakshatraSpan)),
		Pada:         int(nakDeg/PadaSpan) + 1,
	}
}

// Wrap360 reduces any angle to [0, 360).
func Wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// AngularDistance returns the separation from a to b measured forward along
// the ecliptic, in [0, 360).
func AngularDistance(a, b float64) float64 {
	return Wrap360(b - a)
}
