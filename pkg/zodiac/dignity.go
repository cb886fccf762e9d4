package zodiac

import "github.com/navagraha/jyotish/pkg/ephemeris"

// Dignity classifies how well-placed a body is in a sign.
type Dignity string

const (
	Exalted      Dignity = "exalted"
	Moolatrikona Dignity = "moolatrikona"
	OwnSign      Dignity = "own"
	FriendSign   Dignity = "friend"
	NeutralSign  Dignity = "neutral"
	EnemySign    Dignity = "enemy"
	Debilitated  Dignity = "debilitated"
)

// SignLord returns the ruling body of a sign. The nodes rule no sign, so
// every sign has a classical-planet lord.
func SignLord(s Sign) ephemeris.Body {
	return signLords[s]
}

var signLords = [12]ephemeris.Body{
	Aries:       ephemeris.Mars,
	Taurus:      ephemeris.Venus,
	Gemini:      ephemeris.Mercury,
	Cancer:      ephemeris.Moon,
	Leo:         ephemeris.Sun,
	Virgo:       ephemeris.Mercury,
	Libra:       ephemeris.Venus,
	Scorpio:     ephemeris.Mars,
	Sagittarius: ephemeris.Jupiter,
	Capricorn:   ephemeris.Saturn,
	Aquarius:    ephemeris.Saturn,
	Pisces:      ephemeris.Jupiter,
}

// ExaltationDegree returns the exact exaltation point of a body as an
// absolute sidereal longitude, and whether the body has one.
func ExaltationDegree(b ephemeris.Body) (float64, bool) {
	deg, ok := exaltationDegrees[b]
	return deg, ok
}

// Classical deep-exaltation points (Sun 10° Aries, Moon 3° Taurus, ...).
// Debilitation is the opposite point.
var exaltationDegrees = map[ephemeris.Body]float64{
	ephemeris.Sun:     10,
	ephemeris.Moon:    33,
	ephemeris.Mars:    298,
	ephemeris.Mercury: 165,
	ephemeris.Jupiter: 95,
	ephemeris.Venus:   357,
	ephemeris.Saturn:  200,
}

// Moolatrikona placements as (sign, low degree, high degree).
var moolatrikona = map[ephemeris.Body]struct {
	sign      Sign
	low, high float64
}{
	ephemeris.Sun:     {Leo, 0, 20},
	ephemeris.Moon:    {Taurus, 3, 30},
	ephemeris.Mars:    {Aries, 0, 12},
	ephemeris.Mercury: {Virgo, 15, 20},
	ephemeris.Jupiter: {Sagittarius, 0, 10},
	ephemeris.Venus:   {Libra, 0, 15},
	ephemeris.Saturn:  {Aquarius, 0, 20},
}

// Natural friendships per Parashara. Row body considers column body a friend
// or enemy; unlisted pairs are neutral.
var naturalFriends = map[ephemeris.Body][]ephemeris.Body{
	ephemeris.Sun:     {ephemeris.Moon, ephemeris.Mars, ephemeris.Jupiter},
	ephemeris.Moon:    {ephemeris.Sun, ephemeris.Mercury},
	ephemeris.Mars:    {ephemeris.Sun, ephemeris.Moon, ephemeris.Jupiter},
	ephemeris.Mercury: {ephemeris.Sun, ephemeris.Venus},
	ephemeris.Jupiter: {ephemeris.Sun, ephemeris.Moon, ephemeris.Mars},
	ephemeris.Venus:   {ephemeris.Mercury, ephemeris.Saturn},
	ephemeris.Saturn:  {ephemeris.Mercury, ephemeris.Venus},
}

var naturalEnemies = map[ephemeris.Body][]ephemeris.Body{
	ephemeris.Sun:     {ephemeris.Venus, ephemeris.Saturn},
	ephemeris.Moon:    {},
	ephemeris.Mars:    {ephemeris.Mercury},
	ephemeris.Mercury: {ephemeris.Moon},
	ephemeris.Jupiter: {ephemeris.Mercury, ephemeris.Venus},
	ephemeris.Venus:   {ephemeris.Sun, ephemeris.Moon},
	ephemeris.Saturn:  {ephemeris.Sun, ephemeris.Moon, ephemeris.Mars},
}

func contains(list []ephemeris.Body, b ephemeris.Body) bool {
	for _, x := range list {
		if x == b {
			return true
		}
	}
	return false
}

// DignityOf classifies a classical body at a sidereal longitude. The nodes
// carry no classical dignity and always report neutral.
func DignityOf(b ephemeris.Body, siderealLongitude float64) Dignity {
	if b.IsNode() {
		return NeutralSign
	}

	sign := Sign(int(Wrap360(siderealLongitude) / SignSpan))
	degInSign := Wrap360(siderealLongitude) - float64(int(sign))*SignSpan

	if exalt, ok := exaltationDegrees[b]; ok {
		if Sign(int(exalt/SignSpan)) == sign {
			return Exalted
		}
		if Sign(int(Wrap360(exalt+180)/SignSpan)) == sign {
			return Debilitated
		}
	}

	if mt, ok := moolatrikona[b]; ok && mt.sign == sign &&
		degInSign >= mt.low && degInSign < mt.high {
		return Moolatrikona
	}

	lord := signLords[sign]
	if lord == b {
		return OwnSign
	}
	if contains(naturalFriends[b], lord) {
		return FriendSign
	}
	if contains(naturalEnemies[b], lord) {
		return EnemySign
	}
	return NeutralSign
}

// IsNaturalBenefic reports the classical benefic set. Mercury and the Moon
// are conditional benefics in the full tradition; the engine uses the fixed
// natural classification, which is what the default rule catalog assumes.
func IsNaturalBenefic(b ephemeris.Body) bool {
	switch b {
	case ephemeris.Jupiter, ephemeris.Venus, ephemeris.Mercury, ephemeris.Moon:
		return true
	}
	return false
}

// IsNaturalMalefic reports the classical malefic set.
func IsNaturalMalefic(b ephemeris.Body) bool {
	switch b {
	case ephemeris.Sun, ephemeris.Mars, ephemeris.Saturn, ephemeris.Rahu, ephemeris.Ketu:
		return true
	}
	return false
}
