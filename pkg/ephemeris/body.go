package ephemeris

import "fmt"

// Body identifies one of the nine grahas tracked by the engine.
type Body int

const (
	Sun Body = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

// Bodies lists all nine grahas in canonical order.
var Bodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// ClassicalBodies lists the seven classical planets (no lunar nodes),
// the reference set used by Ashtakavarga and Shadbala.
var ClassicalBodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

var bodyNames = [...]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mars:    "Mars",
	Mercury: "Mercury",
	Jupiter: "Jupiter",
	Venus:   "Venus",
	Saturn:  "Saturn",
	Rahu:    "Rahu",
	Ketu:    "Ketu",
}

func (b Body) String() string {
	if b < Sun || b > Ketu {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// MarshalText implements encoding.TextMarshaler so bodies serialize by name.
func (b Body) MarshalText() ([]byte, error) {
	if b < Sun || b > Ketu {
		return nil, fmt.Errorf("unknown body %d", int(b))
	}
	return []byte(bodyNames[b]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Body) UnmarshalText(text []byte) error {
	parsed, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBody resolves a body by its English name.
func ParseBody(name string) (Body, error) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body %q", name)
}

// IsNode reports whether the body is one of the lunar nodes.
func (b Body) IsNode() bool {
	return b == Rahu || b == Ketu
}
