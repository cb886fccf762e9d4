package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"

	"github.com/navagraha/jyotish/pkg/zodiac"
)

// ErrPolarIndeterminate is returned for latitudes where the ascendant is
// mathematically undefined. Reported, never approximated.
var ErrPolarIndeterminate = errors.New("chart: ascendant indeterminate at polar latitude")

// polarLatitudeLimit is the |latitude| beyond which tan(φ) makes the
// ascendant formula numerically meaningless.
const polarLatitudeLimit = 89.99

// TropicalAscendant computes the tropical ecliptic longitude of the
// ascendant from apparent sidereal time and true obliquity:
//
//	λ_asc = atan2(cos θ, -(sin θ cos ε + tan φ sin ε))
//
// where θ is the right ascension of the midheaven (local apparent sidereal
// time as an angle) and φ the geographic latitude.
func TropicalAscendant(t time.Time, latitude, longitude float64) (float64, error) {
	if math.Abs(latitude) > polarLatitudeLimit {
		return 0, fmt.Errorf("%w: latitude %.4f", ErrPolarIndeterminate, latitude)
	}

	jd := julian.TimeToJD(t.UTC())

	// Apparent sidereal time at Greenwich already carries the equation of
	// the equinoxes; adding east longitude gives the local RAMC.
	gst := sidereal.Apparent(jd)
	ramc := zodiac.Wrap360(gst.Angle().Deg() + longitude)

	ε0 := nutation.MeanObliquity(jd)
	_, Δε := nutation.Nutation(jd)
	ε := ε0.Rad() + Δε.Rad()

	θ := ramc * math.Pi / 180
	φ := latitude * math.Pi / 180

	asc := math.Atan2(math.Cos(θ), -(math.Sin(θ)*math.Cos(ε) + math.Tan(φ)*math.Sin(ε)))
	return zodiac.Wrap360(asc * 180 / math.Pi), nil
}
