// Package ephemeris defines the raw planetary-position interface consumed by
// the chart engine, together with a built-in low-precision provider and a
// per-run memoizing cache. Positions are tropical (not ayanamsa-corrected);
// sidereal reduction happens downstream in the zodiac package.
package ephemeris

import (
	"errors"
	"time"
)

// ErrDateOutOfRange is returned when a provider is asked for a position
// outside its supported epoch window.
var ErrDateOutOfRange = errors.New("ephemeris: date outside supported range")

// Position is a raw geocentric ecliptic position for one body at one instant.
type Position struct {
	// Longitude is the tropical ecliptic longitude in degrees [0, 360).
	Longitude float64 `json:"longitude"`
	// Latitude is the ecliptic latitude in degrees.
	Latitude float64 `json:"latitude"`
	// Speed is the daily motion in degrees per day. Negative while the
	// body is retrograde.
	Speed float64 `json:"speed"`
}

// Retrograde reports whether the body was moving backwards at the instant.
func (p Position) Retrograde() bool {
	return p.Speed < 0
}

// Provider supplies raw ecliptic positions. Implementations must be safe for
// concurrent use; the engine fans out over one shared Provider.
type Provider interface {
	// Position returns the tropical ecliptic position of body at t (UTC).
	Position(t time.Time, body Body) (Position, error)
}
