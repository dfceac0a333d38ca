// Package element holds the static type effectiveness chart and the
// multiplier arithmetic built on top of it.
package element

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Element is a lower-case elemental type identifier, e.g. "fire".
type Element string

// Normalize lower-cases and trims a free-form element identifier.
func Normalize(s string) Element {
	return Element(strings.ToLower(strings.TrimSpace(s)))
}

// ErrUnknownElement is returned when an attacking element is not in the chart.
var ErrUnknownElement = errors.New("unknown element")

//go:embed chart.yaml
var defaultChartYAML []byte

// chartRow is one attacking element's row as stored in YAML.
type chartRow struct {
	Attacking string             `yaml:"attacking"`
	Against   map[string]float64 `yaml:"against"`
}

// Chart is an immutable effectiveness table.
//
// Invariant: every multiplier stored is one of 0, 0.5, 1, 2.
type Chart struct {
	order []Element
	rows  map[Element]map[Element]float64
}

// LoadChart decodes a chart from YAML.
//
// Postcondition: Returns a non-nil Chart, or an error if the document is
// malformed, repeats an attacking element, or holds a multiplier outside {0, 0.5, 1, 2}.
func LoadChart(r io.Reader) (*Chart, error) {
	var rows []chartRow
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing effectiveness chart: %w", err)
	}
	c := &Chart{rows: make(map[Element]map[Element]float64, len(rows))}
	for _, row := range rows {
		atk := Normalize(row.Attacking)
		if atk == "" {
			return nil, errors.New("effectiveness chart: attacking element must not be empty")
		}
		if _, dup := c.rows[atk]; dup {
			return nil, fmt.Errorf("effectiveness chart: duplicate attacking element %q", atk)
		}
		against := make(map[Element]float64, len(row.Against))
		for def, m := range row.Against {
			switch m {
			case 0, 0.5, 1, 2:
			default:
				return nil, fmt.Errorf("effectiveness chart: %s vs %s has invalid multiplier %v", atk, def, m)
			}
			against[Normalize(def)] = m
		}
		c.order = append(c.order, atk)
		c.rows[atk] = against
	}
	return c, nil
}

var (
	defaultOnce  sync.Once
	defaultChart *Chart
)

// Default returns the built-in chart of the eighteen canonical elements.
func Default() *Chart {
	defaultOnce.Do(func() {
		c, err := LoadChart(bytes.NewReader(defaultChartYAML))
		if err != nil {
			panic("element: embedded chart is invalid: " + err.Error())
		}
		defaultChart = c
	})
	return defaultChart
}

// All returns the chart's attacking elements in canonical order.
//
// Postcondition: The returned slice is a copy.
func (c *Chart) All() []Element {
	out := make([]Element, len(c.order))
	copy(out, c.order)
	return out
}

// Lookup returns the single-pair multiplier, defaulting to 1 for unlisted
// defenders.
//
// Postcondition: Returns ErrUnknownElement iff attacking is not in the chart.
func (c *Chart) Lookup(attacking, defending Element) (float64, error) {
	row, ok := c.rows[attacking]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownElement, attacking)
	}
	if m, ok := row[defending]; ok {
		return m, nil
	}
	return 1, nil
}

// Effectiveness returns the product of the single-pair multipliers of
// attacking against each defending element.
//
// Postcondition: len(defending) == 0 yields 1.
func (c *Chart) Effectiveness(attacking Element, defending []Element) (float64, error) {
	total := 1.0
	for _, d := range defending {
		m, err := c.Lookup(attacking, d)
		if err != nil {
			return 0, err
		}
		total *= m
	}
	return total, nil
}
