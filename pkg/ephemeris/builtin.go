package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"
)

// BuiltinProvider computes low-precision geocentric positions without any
// external data files. The Sun and Moon come from truncated analytic series;
// the five classical planets come from Keplerian mean orbital elements
// (Standish, "Approximate Positions of the Planets"); Rahu is the mean lunar
// ascending node and Ketu its opposite point. Accuracy is on the order of
// arcminutes inside the supported window, which is sufficient for sign,
// nakshatra and house classification in all but pathological boundary cases.
type BuiltinProvider struct{}

// NewBuiltinProvider returns a provider backed by the built-in series.
func NewBuiltinProvider() *BuiltinProvider {
	return &BuiltinProvider{}
}

// The mean-element tables are fitted for 1800-2050. Drift beyond the fit
// interval grows slowly enough that sign-level work stays sound through 2100,
// so the window extends that far; requests outside it are refused.
var (
	minSupported = time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	maxSupported = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// speedStepDays is the half-step used for the central-difference daily motion.
const speedStepDays = 0.5

// Position implements Provider.
func (p *BuiltinProvider) Position(t time.Time, body Body) (Position, error) {
	if t.Before(minSupported) || !t.Before(maxSupported) {
		return Position{}, fmt.Errorf("%w: %s", ErrDateOutOfRange, t.UTC().Format(time.RFC3339))
	}

	jd := julian.TimeToJD(t.UTC())

	lon, lat, err := eclipticAt(jd, body)
	if err != nil {
		return Position{}, err
	}

	before, _, err := eclipticAt(jd-speedStepDays, body)
	if err != nil {
		return Position{}, err
	}
	after, _, err := eclipticAt(jd+speedStepDays, body)
	if err != nil {
		return Position{}, err
	}

	return Position{
		Longitude: wrap360(lon),
		Latitude:  lat,
		Speed:     wrapSigned(after - before),
	}, nil
}

// eclipticAt returns the tropical ecliptic longitude and latitude in degrees.
func eclipticAt(jd float64, body Body) (lon, lat float64, err error) {
	switch body {
	case Sun:
		T := base.J2000Century(jd)
		return solar.ApparentLongitude(T).Deg(), 0, nil
	case Moon:
		λ, β, _ := moonposition.Position(jd)
		return λ.Deg(), β.Deg(), nil
	case Rahu:
		return meanLunarNode(jd), 0, nil
	case Ketu:
		return meanLunarNode(jd) + 180, 0, nil
	case Mercury, Venus, Mars, Jupiter, Saturn:
		lon, lat := planetGeocentric(jd, body)
		return lon, lat, nil
	}
	return 0, 0, fmt.Errorf("ephemeris: unknown body %d", int(body))
}

// meanLunarNode returns the mean longitude of the Moon's ascending node
// (Meeus ch. 47 polynomial).
func meanLunarNode(jd float64) float64 {
	T := base.J2000Century(jd)
	Ω := 125.0445479 - 1934.1362891*T + 0.0020754*T*T +
		T*T*T/467441 - T*T*T*T/60616000
	return wrap360(Ω)
}

// keplerElements holds J2000 mean orbital elements and per-century rates:
// semi-major axis (au), eccentricity, inclination, mean longitude,
// longitude of perihelion, longitude of ascending node (degrees).
type keplerElements struct {
	a, aDot float64
	e, eDot float64
	i, iDot float64
	l, lDot float64
	p, pDot float64
	n, nDot float64
}

// Standish mean elements, fit interval 1800 AD - 2050 AD.
var planetElements = map[Body]keplerElements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
}

// Earth-Moon barycenter, same source.
var earthElements = keplerElements{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0}

// planetGeocentric converts heliocentric Keplerian positions of the planet
// and the Earth into a geocentric ecliptic longitude/latitude.
func planetGeocentric(jd float64, body Body) (lon, lat float64) {
	T := base.J2000Century(jd)

	px, py, pz := heliocentric(planetElements[body], T)
	ex, ey, ez := heliocentric(earthElements, T)

	gx := px - ex
	gy := py - ey
	gz := pz - ez

	lon = wrap360(radToDeg(math.Atan2(gy, gx)))
	lat = radToDeg(math.Atan2(gz, math.Hypot(gx, gy)))
	return lon, lat
}

// heliocentric returns J2000-ecliptic rectangular coordinates in au.
func heliocentric(el keplerElements, T float64) (x, y, z float64) {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := degToRad(el.i + el.iDot*T)
	L := el.l + el.lDot*T
	p := el.p + el.pDot*T
	n := degToRad(el.n + el.nDot*T)

	M := degToRad(wrapSigned(L - p))
	ω := degToRad(p) - n

	E := solveKepler(M, e)

	// position in the orbital plane
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cosω, sinω := math.Cos(ω), math.Sin(ω)
	cosn, sinn := math.Cos(n), math.Sin(n)
	cosi, sini := math.Cos(i), math.Sin(i)

	x = (cosω*cosn-sinω*sinn*cosi)*xp + (-sinω*cosn-cosω*sinn*cosi)*yp
	y = (cosω*sinn+sinω*cosn*cosi)*xp + (-sinω*sinn+cosω*cosn*cosi)*yp
	z = sinω*sini*xp + cosω*sini*yp
	return x, y, z
}

// solveKepler iterates Newton's method on E - e sin E = M. Converges in a
// handful of steps for every planetary eccentricity.
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for iter := 0; iter < 10; iter++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// wrap360 reduces an angle to [0, 360).
func wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// wrapSigned reduces an angle difference to (-180, 180].
func wrapSigned(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	}
	if a <= -180 {
		a += 360
	}
	return a
}
