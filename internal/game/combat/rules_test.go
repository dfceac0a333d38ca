package combat_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/scripting"
)

func TestBaseDamage_Scenario(t *testing.T) {
	assert.Equal(t, 7, combat.BaseDamage(60, 100, 50, 1))
}

func TestBaseDamage_ImmuneStillDealsTwo(t *testing.T) {
	assert.Equal(t, 2, combat.BaseDamage(120, 200, 10, 0))
}

func TestDamage_BurnHalves(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	atk := newCombatant("a", 100, 100, 1, 1, nil)
	def := newCombatant("d", 100, 1, 50, 1, nil)
	act := combat.Action{ID: "tackle", Power: 60}
	assert.Equal(t, 7, rules.Damage(atk, def, act, 1))
	atk.Status = combat.StatusBurn
	assert.Equal(t, 3, rules.Damage(atk, def, act, 1))
}

func TestDamage_PoisonAndParalysisDoNotScale(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	atk := newCombatant("a", 100, 100, 1, 1, nil)
	def := newCombatant("d", 100, 1, 50, 1, nil)
	act := combat.Action{Power: 60}
	for _, s := range []combat.Status{combat.StatusPoison, combat.StatusParalysis} {
		atk.Status = s
		assert.Equal(t, 7, rules.Damage(atk, def, act, 1), s.String())
	}
}

func TestPropertyBaseDamage_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		power := rapid.IntRange(1, 250).Draw(rt, "power")
		atk := rapid.IntRange(1, 255).Draw(rt, "attack")
		def := rapid.IntRange(1, 255).Draw(rt, "defense")
		eff := rapid.SampledFrom([]float64{0, 0.25, 0.5, 1, 2, 4}).Draw(rt, "eff")
		base := combat.BaseDamage(power, atk, def, eff)
		assert.GreaterOrEqual(rt, base, 2)
		assert.GreaterOrEqual(rt, combat.BaseDamage(power+1, atk, def, eff), base)
		assert.GreaterOrEqual(rt, combat.BaseDamage(power, atk+1, def, eff), base)
		assert.LessOrEqual(rt, combat.BaseDamage(power, atk, def+1, eff), base)
	})
}

func TestPropertyDamage_BurnIsFlooredHalf(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	rapid.Check(t, func(rt *rapid.T) {
		power := rapid.IntRange(1, 250).Draw(rt, "power")
		a := newCombatant("a", 10, rapid.IntRange(1, 255).Draw(rt, "attack"), 1, 1, nil)
		d := newCombatant("d", 10, 1, rapid.IntRange(1, 255).Draw(rt, "defense"), 1, nil)
		act := combat.Action{Power: power}
		plain := rules.Damage(a, d, act, 1)
		a.Status = combat.StatusBurn
		burned := rules.Damage(a, d, act, 1)
		assert.Equal(rt, int(math.Floor(float64(plain)*0.5)), burned)
		assert.Less(rt, burned, plain)
	})
}

func TestSkips_NoDrawWithoutParalysis(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	roller := dice.NewLoggedRoller(panicSource{}, zap.NewNop())
	c := newCombatant("a", 10, 1, 1, 1, nil)
	for _, s := range []combat.Status{combat.StatusNone, combat.StatusBurn, combat.StatusPoison} {
		c.Status = s
		assert.False(t, rules.Skips(c, roller), s.String())
	}
}

func TestSkips_ParalysisIsTwentyFivePercent(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	c := newCombatant("a", 10, 1, 1, 1, nil)
	c.Status = combat.StatusParalysis
	assert.True(t, rules.Skips(c, dice.NewLoggedRoller(&seqSource{vals: []int{24}}, zap.NewNop())))
	assert.False(t, rules.Skips(c, dice.NewLoggedRoller(&seqSource{vals: []int{25}}, zap.NewNop())))
}

func TestInflict(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	hit := dice.NewLoggedRoller(&seqSource{vals: []int{0}}, zap.NewNop())
	miss := dice.NewLoggedRoller(&seqSource{vals: []int{99}}, zap.NewNop())
	act := combat.Action{ID: "ember", Power: 40, Ailment: "burn", AilmentChance: 10}

	d := newCombatant("d", 10, 1, 1, 1, nil)
	_, _, ok := rules.Inflict(d, act, miss)
	assert.False(t, ok)
	assert.Equal(t, combat.StatusNone, d.Status)

	s, text, ok := rules.Inflict(d, act, hit)
	assert.True(t, ok)
	assert.Equal(t, combat.StatusBurn, s)
	assert.Equal(t, combat.StatusBurn, d.Status)
	assert.Equal(t, "d was afflicted with burn!", text)

	// An existing ailment is never replaced.
	_, _, ok = rules.Inflict(d, combat.Action{Ailment: "poison", AilmentChance: 100}, hit)
	assert.False(t, ok)
	assert.Equal(t, combat.StatusBurn, d.Status)
}

func TestInflict_IgnoresOtherAilments(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	roller := dice.NewLoggedRoller(panicSource{}, zap.NewNop())
	d := newCombatant("d", 10, 1, 1, 1, nil)
	for _, ailment := range []string{"", "none", "sleep", "confusion"} {
		_, _, ok := rules.Inflict(d, combat.Action{Ailment: ailment, AilmentChance: 100}, roller)
		assert.False(t, ok, ailment)
	}
}

func TestTick_UsesMaxHP(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	c := newCombatant("a", 80, 1, 1, 1, nil)
	c.Status = combat.StatusPoison
	for i := 0; i < 3; i++ {
		dmg, ok := rules.Tick(c)
		assert.True(t, ok)
		assert.Equal(t, 10, dmg)
	}
	assert.Equal(t, 50, c.CurrentHP)
}

func TestTick_ParalysisDoesNotTick(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	c := newCombatant("a", 80, 1, 1, 1, nil)
	c.Status = combat.StatusParalysis
	_, ok := rules.Tick(c)
	assert.False(t, ok)
	assert.Equal(t, 80, c.CurrentHP)
}

// scriptedRules builds Rules over a single ticking "poison" definition whose
// hooks come from src.
func scriptedRules(t *testing.T, src string) *combat.Rules {
	t.Helper()
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "poison", TickDivisor: 8, LuaOnTick: "tick", LuaOnApply: "apply"})
	hooks := scripting.NewManager(zap.NewNop())
	require.NoError(t, hooks.Load("test.lua", src, 0))
	t.Cleanup(hooks.Close)
	return combat.NewRules(reg, hooks)
}

func TestTick_HookDecidesDamage(t *testing.T) {
	rules := scriptedRules(t, `function tick(c) return c.max_hp / 4 + 0.5 end`)
	c := newCombatant("a", 80, 1, 1, 1, nil)
	c.Status = combat.StatusPoison
	dmg, ok := rules.Tick(c)
	require.True(t, ok)
	assert.Equal(t, 20, dmg)
	assert.Equal(t, 60, c.CurrentHP)
}

func TestTick_NegativeHookResultIsZero(t *testing.T) {
	rules := scriptedRules(t, `function tick(c) return -5 end`)
	c := newCombatant("a", 80, 1, 1, 1, nil)
	c.Status = combat.StatusPoison
	dmg, ok := rules.Tick(c)
	require.True(t, ok)
	assert.Equal(t, 0, dmg)
	assert.Equal(t, 80, c.CurrentHP)
}

func TestTick_FailingHookFallsBackToDivisor(t *testing.T) {
	rules := scriptedRules(t, `function tick(c) error("boom") end`)
	c := newCombatant("a", 80, 1, 1, 1, nil)
	c.Status = combat.StatusPoison
	dmg, ok := rules.Tick(c)
	require.True(t, ok)
	assert.Equal(t, 10, dmg)
}

func TestTick_WithoutHooksUsesDivisor(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "burn", TickDivisor: 8, LuaOnTick: "lose_eighth"})
	rules := combat.NewRules(reg, nil)
	c := newCombatant("a", 45, 1, 1, 1, nil)
	c.Status = combat.StatusBurn
	dmg, ok := rules.Tick(c)
	require.True(t, ok)
	assert.Equal(t, 5, dmg)
}

func TestInflict_HookAnnounces(t *testing.T) {
	rules := scriptedRules(t, `function apply(c) return c.name .. " is " .. c.status .. " at " .. c.hp .. "/" .. c.max_hp end`)
	d := newCombatant("bulbasaur", 45, 1, 1, 1, nil)
	d.ApplyDamage(5)
	hit := dice.NewLoggedRoller(&seqSource{vals: []int{0}}, zap.NewNop())
	s, text, ok := rules.Inflict(d, combat.Action{ID: "toxic", Ailment: "poison", AilmentChance: 100}, hit)
	require.True(t, ok)
	assert.Equal(t, combat.StatusPoison, s)
	assert.Equal(t, "bulbasaur is poison at 40/45", text)
}

// TestPropertyTick_DefaultHooksLoseAnEighth checks the built-in burn and poison
// hooks deal floor(MaxHP/8).
func TestPropertyTick_DefaultHooksLoseAnEighth(t *testing.T) {
	rules := combat.DefaultRules(zap.NewNop())
	rapid.Check(t, func(rt *rapid.T) {
		maxHP := rapid.IntRange(1, 1000).Draw(rt, "maxHP")
		status := rapid.SampledFrom([]combat.Status{combat.StatusBurn, combat.StatusPoison}).Draw(rt, "status")
		c := newCombatant("a", maxHP, 1, 1, 1, nil)
		c.Status = status
		dmg, ok := rules.Tick(c)
		assert.True(rt, ok)
		assert.Equal(rt, maxHP/8, dmg)
	})
}
