package condition_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/condition"
)

func TestRegistry_Get_Found(t *testing.T) {
	reg := condition.NewRegistry()
	def := &condition.ConditionDef{ID: "poison", Name: "Poison", TickDivisor: 8}
	reg.Register(def)
	got, ok := reg.Get("poison")
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := condition.NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_Register_DefaultsMultiplier(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "poison"})
	got, _ := reg.Get("poison")
	assert.Equal(t, 1.0, got.DamageMultiplier)
}

func TestDefault_BuiltInAilments(t *testing.T) {
	reg := condition.Default()

	par, ok := reg.Get("paralysis")
	require.True(t, ok)
	assert.Equal(t, 25, par.SkipChance)
	assert.False(t, par.Ticks())
	assert.Equal(t, "afflicted", par.LuaOnApply)

	brn, ok := reg.Get("burn")
	require.True(t, ok)
	assert.Equal(t, 0.5, brn.DamageMultiplier)
	assert.True(t, brn.Ticks())
	assert.Equal(t, "lose_eighth", brn.LuaOnTick)

	psn, ok := reg.Get("poison")
	require.True(t, ok)
	assert.Equal(t, 1.0, psn.DamageMultiplier)
	assert.True(t, psn.Ticks())
	assert.Equal(t, "lose_eighth", psn.LuaOnTick)

	assert.Len(t, reg.All(), 3)
}

func TestDefaultHooks_DefinesEveryNamedHook(t *testing.T) {
	src := condition.DefaultHooks()
	for _, d := range condition.Default().All() {
		for _, hook := range []string{d.LuaOnApply, d.LuaOnTick} {
			if hook != "" {
				assert.Contains(t, src, "function "+hook+"(", "%s names undefined hook %s", d.ID, hook)
			}
		}
	}
}

func TestTickDamage_DataOnlyDivisor(t *testing.T) {
	d := &condition.ConditionDef{ID: "drain", TickDivisor: 8}
	assert.True(t, d.Ticks())
	assert.Equal(t, 5, d.TickDamage(45))
	assert.Equal(t, 0, (&condition.ConditionDef{ID: "inert"}).TickDamage(45))
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := condition.Load(strings.NewReader(":::bad:::"))
	assert.Error(t, err)
}

func TestLoad_UnknownField_ReturnsError(t *testing.T) {
	_, err := condition.Load(strings.NewReader("- id: sleep\n  turns: 3\n"))
	assert.Error(t, err)
}

func TestLoad_MissingID_ReturnsError(t *testing.T) {
	_, err := condition.Load(strings.NewReader("- name: Nameless\n"))
	assert.Error(t, err)
}

func TestLoad_SkipChanceOutOfRange(t *testing.T) {
	_, err := condition.Load(strings.NewReader("- id: freeze\n  skip_chance: 101\n"))
	assert.Error(t, err)
}

func TestScaleDamage_FloorsHalf(t *testing.T) {
	brn, _ := condition.Default().Get("burn")
	assert.Equal(t, 3, brn.ScaleDamage(7))
	assert.Equal(t, 1, brn.ScaleDamage(2))
}

// TestPropertyTickDamage_UsesMaxHP verifies the tick is floor(maxHP/8) and never exceeds maxHP.
func TestPropertyTickDamage_UsesMaxHP(t *testing.T) {
	psn := &condition.ConditionDef{ID: "poison", TickDivisor: 8}
	rapid.Check(t, func(rt *rapid.T) {
		maxHP := rapid.IntRange(1, 1000).Draw(rt, "max_hp")
		d := psn.TickDamage(maxHP)
		assert.Equal(rt, maxHP/8, d)
		assert.LessOrEqual(rt, d, maxHP)
	})
}

func TestPropertyRegistry_RegisterThenGet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z_]{3,12}`).Draw(t, "id")
		reg := condition.NewRegistry()
		def := &condition.ConditionDef{ID: id, Name: id}
		reg.Register(def)
		got, ok := reg.Get(id)
		assert.True(t, ok, "registered condition must be retrievable")
		assert.Equal(t, def, got)
	})
}
