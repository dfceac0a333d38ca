package element_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/element"
)

func drawElement(t *rapid.T, label string) element.Element {
	return rapid.SampledFrom(element.Default().All()).Draw(t, label)
}

func TestDefault_HasEighteenElements(t *testing.T) {
	all := element.Default().All()
	require.Len(t, all, 18)
	assert.Equal(t, element.Element("normal"), all[0])
	assert.Equal(t, element.Element("fairy"), all[17])
}

func TestLookup_UnlistedDefaultsToOne(t *testing.T) {
	m, err := element.Default().Lookup("fire", "normal")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m)
}

func TestLookup_UnknownDefenderDefaultsToOne(t *testing.T) {
	m, err := element.Default().Lookup("fire", "shadow")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m)
}

func TestLookup_UnknownAttackerIsError(t *testing.T) {
	_, err := element.Default().Lookup("shadow", "fire")
	assert.ErrorIs(t, err, element.ErrUnknownElement)
}

func TestEffectiveness_ResistedByOneNeutralToOther(t *testing.T) {
	// fire vs rock (0.5) and normal (1) compounds to 0.5.
	m, err := element.Default().Effectiveness("fire", []element.Element{"rock", "normal"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, m)
	assert.Equal(t, element.Resisted, element.Classify(m))
}

func TestEffectiveness_FourTimes(t *testing.T) {
	m, err := element.Default().Effectiveness("ice", []element.Element{"dragon", "flying"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, m)
}

func TestEffectiveness_ImmunityDominates(t *testing.T) {
	m, err := element.Default().Effectiveness("ground", []element.Element{"flying", "fire"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m)
	assert.Equal(t, element.Immune, element.Classify(m))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, element.SuperEffective, element.Classify(2))
	assert.Equal(t, element.SuperEffective, element.Classify(4))
	assert.Equal(t, element.Resisted, element.Classify(0.5))
	assert.Equal(t, element.Resisted, element.Classify(0.25))
	assert.Equal(t, element.Immune, element.Classify(0))
	assert.Equal(t, element.Normal, element.Classify(1))
}

// TestPropertyEffectiveness_SingleEqualsLookup checks effectiveness(A,[D]) == table[A].get(D,1).
func TestPropertyEffectiveness_SingleEqualsLookup(t *testing.T) {
	chart := element.Default()
	rapid.Check(t, func(rt *rapid.T) {
		a := drawElement(rt, "attacking")
		d := drawElement(rt, "defending")
		single, err := chart.Effectiveness(a, []element.Element{d})
		require.NoError(rt, err)
		lookup, err := chart.Lookup(a, d)
		require.NoError(rt, err)
		assert.Equal(rt, lookup, single)
	})
}

// TestPropertyEffectiveness_DualIsProduct checks the two-defender multiplier is a product.
func TestPropertyEffectiveness_DualIsProduct(t *testing.T) {
	chart := element.Default()
	rapid.Check(t, func(rt *rapid.T) {
		a := drawElement(rt, "attacking")
		d1 := drawElement(rt, "d1")
		d2 := drawElement(rt, "d2")
		m1, _ := chart.Lookup(a, d1)
		m2, _ := chart.Lookup(a, d2)
		both, err := chart.Effectiveness(a, []element.Element{d1, d2})
		require.NoError(rt, err)
		assert.Equal(rt, m1*m2, both)
	})
}

// TestPropertyBreakdown_IsPartition checks no element lands in two buckets.
func TestPropertyBreakdown_IsPartition(t *testing.T) {
	chart := element.Default()
	rapid.Check(t, func(rt *rapid.T) {
		defending := rapid.SliceOfNDistinct(rapid.SampledFrom(chart.All()), 1, 2, func(e element.Element) element.Element { return e }).Draw(rt, "defending")
		b := chart.Breakdown(defending)
		seen := make(map[element.Element]int)
		for _, bucket := range [][]element.Entry{b.Weak, b.Resistant, b.Immune} {
			for _, e := range bucket {
				seen[e.Element]++
			}
		}
		for el, n := range seen {
			assert.Equal(rt, 1, n, "element %s counted %d times", el, n)
		}
		assert.LessOrEqual(rt, len(seen), 18)
		for _, e := range b.Weak {
			assert.GreaterOrEqual(rt, e.Multiplier, 2.0)
		}
		for _, e := range b.Resistant {
			assert.Greater(rt, e.Multiplier, 0.0)
			assert.LessOrEqual(rt, e.Multiplier, 0.5)
		}
	})
}

func TestBreakdown_Labels(t *testing.T) {
	// grass/poison: ice, fire, flying, psychic are 2x; grass is 0.25x.
	b := element.Default().Breakdown([]element.Element{"grass", "poison"})
	labels := map[element.Element]string{}
	for _, e := range append(append([]element.Entry{}, b.Weak...), b.Resistant...) {
		labels[e.Element] = e.Label
	}
	assert.Equal(t, "2x", labels["fire"])
	assert.Equal(t, "2x", labels["psychic"])
	assert.Equal(t, "0.25x", labels["grass"])
	assert.Equal(t, "0.5x", labels["water"])
	assert.Empty(t, b.Immune)
}

func TestBreakdown_FourTimesWeakness(t *testing.T) {
	b := element.Default().Breakdown([]element.Element{"dragon", "flying"})
	var ice *element.Entry
	for i := range b.Weak {
		if b.Weak[i].Element == "ice" {
			ice = &b.Weak[i]
		}
	}
	require.NotNil(t, ice)
	assert.Equal(t, "4x", ice.Label)
	// ground cannot touch flying.
	require.Len(t, b.Immune, 1)
	assert.Equal(t, element.Element("ground"), b.Immune[0].Element)
}

func TestDescribe(t *testing.T) {
	title := strings.ToUpper
	chart := element.Default()

	s, err := chart.Describe("fire", "grass", title)
	require.NoError(t, err)
	assert.Equal(t, "FIRE vs GRASS: Super effective (2x damage)", s)

	s, err = chart.Describe("water", "grass", title)
	require.NoError(t, err)
	assert.Contains(t, s, "Not very effective (0.5x damage)")

	s, err = chart.Describe("normal", "ghost", title)
	require.NoError(t, err)
	assert.Contains(t, s, "No effect (0x damage)")

	s, err = chart.Describe("normal", "normal", title)
	require.NoError(t, err)
	assert.Contains(t, s, "Normal effectiveness (1x damage)")

	_, err = chart.Describe("shadow", "normal", title)
	assert.ErrorIs(t, err, element.ErrUnknownElement)
}

func TestLoadChart_RejectsInvalidMultiplier(t *testing.T) {
	_, err := element.LoadChart(strings.NewReader("- attacking: fire\n  against: {grass: 3}\n"))
	assert.Error(t, err)
}

func TestLoadChart_RejectsUnknownField(t *testing.T) {
	_, err := element.LoadChart(strings.NewReader("- attacking: fire\n  bonus: 1\n"))
	assert.Error(t, err)
}

func TestLoadChart_RejectsDuplicate(t *testing.T) {
	_, err := element.LoadChart(strings.NewReader("- attacking: fire\n- attacking: Fire\n"))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, element.Element("fire"), element.Normalize("  FiRe "))
}
