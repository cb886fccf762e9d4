package zodiac

import (
	"fmt"
	"time"
)

// Ayanamsa identifies a sidereal correction model. The engine treats the
// choice as configuration; Lahiri is the documented default.
type Ayanamsa string

const (
	Lahiri       Ayanamsa = "lahiri"
	Raman        Ayanamsa = "raman"
	Krishnamurti Ayanamsa = "krishnamurti"
	FaganBradley Ayanamsa = "fagan-bradley"
)

// ParseAyanamsa validates an ayanamsa identifier from configuration.
func ParseAyanamsa(id string) (Ayanamsa, error) {
	switch Ayanamsa(id) {
	case Lahiri, Raman, Krishnamurti, FaganBradley:
		return Ayanamsa(id), nil
	case "":
		return Lahiri, nil
	}
	return "", fmt.Errorf("unknown ayanamsa %q", id)
}

// Ayanamsa value at J2000.0 per model, in degrees. These are the published
// reference values; all models precess at the same general rate.
var ayanamsaAtJ2000 = map[Ayanamsa]float64{
	Lahiri:       23.85408,
	Raman:        22.46047,
	Krishnamurti: 23.75012,
	FaganBradley: 24.74005,
}

// General precession in longitude, arcseconds per Julian year, with the
// slow secular acceleration term.
const (
	precessionRate  = 50.28796
	precessionAccel = 0.000222
)

var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Degrees returns the ayanamsa offset in degrees at the given instant.
func (a Ayanamsa) Degrees(t time.Time) float64 {
	base, ok := ayanamsaAtJ2000[a]
	if !ok {
		base = ayanamsaAtJ2000[Lahiri]
	}
	years := t.UTC().Sub(j2000).Hours() / 24 / 365.25
	return base + (precessionRate*years+precessionAccel*years*years)/3600
}
