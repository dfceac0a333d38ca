package element

import "fmt"

// Class buckets a compound multiplier.
type Class int

const (
	Normal Class = iota
	SuperEffective
	Resisted
	Immune
)

// String returns a short label for the class.
func (c Class) String() string {
	switch c {
	case SuperEffective:
		return "super-effective"
	case Resisted:
		return "resisted"
	case Immune:
		return "immune"
	default:
		return "normal"
	}
}

// Classify maps a multiplier onto its Class.
//
// Postcondition: m > 1 is SuperEffective, 0 < m < 1 is Resisted, m == 0 is Immune,
// anything else is Normal.
func Classify(m float64) Class {
	switch {
	case m > 1:
		return SuperEffective
	case m > 0 && m < 1:
		return Resisted
	case m == 0:
		return Immune
	default:
		return Normal
	}
}

// Describe answers a single-pair query with the chart's canonical wording,
// e.g. "Fire vs Grass: Super effective (2x damage)". Display casing of the
// element names is left to the caller through title.
func (c *Chart) Describe(attacking, defending Element, title func(string) string) (string, error) {
	m, err := c.Lookup(attacking, defending)
	if err != nil {
		return "", err
	}
	var result string
	switch m {
	case 2:
		result = "Super effective (2x damage)"
	case 0.5:
		result = "Not very effective (0.5x damage)"
	case 0:
		result = "No effect (0x damage)"
	default:
		result = "Normal effectiveness (1x damage)"
	}
	return fmt.Sprintf("%s vs %s: %s", title(string(attacking)), title(string(defending)), result), nil
}
