package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/dice"
)

// fixedSrc returns val for every Intn call.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	src := dice.NewSeededSource(7)
	assert.Panics(t, func() { src.Intn(0) })
}

// TestSeededSource_Reproducible verifies two sources with the same seed agree.
func TestSeededSource_Reproducible(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		bounds := rapid.SliceOfN(rapid.IntRange(1, 1000), 1, 50).Draw(rt, "bounds")
		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for _, n := range bounds {
			va, vb := a.Intn(n), b.Intn(n)
			assert.Equal(rt, va, vb)
			assert.GreaterOrEqual(rt, va, 0)
			assert.Less(rt, va, n)
		}
	})
}

func TestRoller_Chance_Bounds(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{val: 0}, zap.NewNop())
	assert.False(t, r.Chance("never", 0))
	assert.False(t, r.Chance("negative", -5))
	assert.True(t, r.Chance("always", 100))
	assert.True(t, r.Chance("over", 250))
}

func TestRoller_Chance_ComparesAgainstPercent(t *testing.T) {
	assert.True(t, dice.NewLoggedRoller(fixedSrc{val: 24}, zap.NewNop()).Chance("paralysis", 25))
	assert.False(t, dice.NewLoggedRoller(fixedSrc{val: 25}, zap.NewNop()).Chance("paralysis", 25))
}

func TestRoller_Pick_LogsDraw(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(fixedSrc{val: 3}, zap.New(core))

	v := r.Pick("move", 10)
	assert.Equal(t, 3, v)

	entries := logs.FilterMessage("dice pick").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "move", entries[0].ContextMap()["label"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["value"])
}

// TestPropertyRoller_PickInRange verifies Pick stays within [0, n) for a real source.
func TestPropertyRoller_PickInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 500).Draw(rt, "n")
		r := dice.NewLoggedRoller(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), zap.NewNop())
		v := r.Pick("p", n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}
