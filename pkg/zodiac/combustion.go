package zodiac

import (
	"github.com/navagraha/jyotish/pkg/ephemeris"
)

// Classical combustion orbs in degrees of separation from the Sun. Mercury
// and Venus tighten when retrograde; the Moon's entry is the new-moon orb.
var combustionOrbs = map[ephemeris.Body]float64{
	ephemeris.Moon:    12,
	ephemeris.Mars:    17,
	ephemeris.Mercury: 14,
	ephemeris.Jupiter: 11,
	ephemeris.Venus:   10,
	ephemeris.Saturn:  15,
}

var combustionOrbsRetrograde = map[ephemeris.Body]float64{
	ephemeris.Mercury: 12,
	ephemeris.Venus:   8,
}

// IsCombust reports whether a body at the given longitude is combust by the
// Sun. The Sun itself and the nodes are never combust.
func IsCombust(b ephemeris.Body, longitude, sunLongitude float64, retrograde bool) bool {
	orb, ok := combustionOrbs[b]
	if !ok {
		return false
	}
	if retrograde {
		if r, ok := combustionOrbsRetrograde[b]; ok {
			orb = r
		}
	}
	sep := AngularDistance(sunLongitude, longitude)
	if sep > 180 {
		sep = 360 - sep
	}
	return sep < orb
}
