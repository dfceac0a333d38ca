package combat

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/scripting"
)

// Rules bundles the battle rules that depend on ailment definitions: damage,
// ailment infliction, end-of-turn ticks, and the paralysis gate. Ailments that
// name Lua hooks are dispatched through the scripting Manager.
type Rules struct {
	conditions *condition.Registry
	hooks      *scripting.Manager
}

// NewRules creates Rules over the given ailment registry and hook VM.
//
// Precondition: conditions must be non-nil. hooks may be nil, in which case
// ailments fall back to their data fields.
func NewRules(conditions *condition.Registry, hooks *scripting.Manager) *Rules {
	return &Rules{conditions: conditions, hooks: hooks}
}

// DefaultRules returns Rules over the built-in ailment definitions and hooks.
//
// Precondition: logger must be non-nil.
func DefaultRules(logger *zap.Logger) *Rules {
	hooks := scripting.NewManager(logger)
	if err := hooks.Load("ailments.lua", condition.DefaultHooks(), 0); err != nil {
		panic("combat: embedded ailment hooks are invalid: " + err.Error())
	}
	return NewRules(condition.Default(), hooks)
}

func snapshot(c *Combatant) scripting.CombatantInfo {
	return scripting.CombatantInfo{
		ID:     c.ID,
		Name:   c.Name,
		HP:     c.CurrentHP,
		MaxHP:  c.MaxHP,
		Status: c.Status.String(),
	}
}

func (r *Rules) def(s Status) (*condition.ConditionDef, bool) {
	if s == StatusNone {
		return nil, false
	}
	return r.conditions.Get(string(s))
}

// BaseDamage evaluates the damage formula for a level-1 attacker:
// floor(((2/5 + 2) * power * attack/defense) / 50 * effectiveness + 2).
//
// Precondition: defense > 0.
// Postcondition: Returns >= 2 for non-negative inputs.
func BaseDamage(power, attack, defense int, effectiveness float64) int {
	v := ((2.0/5.0 + 2.0) * float64(power) * (float64(attack) / float64(defense))) / 50.0
	return int(math.Floor(v*effectiveness + 2))
}

// Damage computes what attacker's action deals to defender, including the
// attacker's ailment scaling.
//
// Postcondition: Returns >= 1.
func (r *Rules) Damage(attacker, defender *Combatant, a Action, effectiveness float64) int {
	dmg := BaseDamage(a.Power, attacker.Attack, defender.Defense, effectiveness)
	if d, ok := r.def(attacker.Status); ok {
		dmg = d.ScaleDamage(dmg)
	}
	return dmg
}

// Skips rolls the paralysis gate for c.
//
// Postcondition: Returns false without drawing when c's ailment has no skip chance.
func (r *Rules) Skips(c *Combatant, roller *dice.Roller) bool {
	d, ok := r.def(c.Status)
	if !ok || d.SkipChance <= 0 {
		return false
	}
	return roller.Chance(c.ID+" "+string(c.Status), d.SkipChance)
}

// Inflict attempts to apply a's secondary ailment to defender.
//
// Postcondition: ok is true iff defender had no ailment, a names a known
// ailment, and the chance roll succeeded; defender.Status is then set and
// text announces it.
func (r *Rules) Inflict(defender *Combatant, a Action, roller *dice.Roller) (s Status, text string, ok bool) {
	if defender.Status != StatusNone {
		return StatusNone, "", false
	}
	s, ok = ParseAilment(a.Ailment)
	if !ok {
		return StatusNone, "", false
	}
	d, ok := r.def(s)
	if !ok {
		return StatusNone, "", false
	}
	if !roller.Chance(a.ID+" "+string(s), a.AilmentChance) {
		return StatusNone, "", false
	}
	defender.Status = s
	text, ok = r.hooks.String(d.LuaOnApply, snapshot(defender))
	if !ok {
		text = fmt.Sprintf("%s was afflicted with %s!", defender.Name, s)
	}
	return s, text, true
}

// Tick applies c's end-of-turn ailment damage. The ailment's tick hook decides
// the amount; without a usable hook it is floor(MaxHP / TickDivisor).
//
// Postcondition: ok is true iff c carries a ticking ailment; dmg >= 0 and has
// been subtracted from CurrentHP.
func (r *Rules) Tick(c *Combatant) (dmg int, ok bool) {
	d, found := r.def(c.Status)
	if !found || !d.Ticks() {
		return 0, false
	}
	dmg = d.TickDamage(c.MaxHP)
	if v, ok := r.hooks.Number(d.LuaOnTick, snapshot(c)); ok {
		dmg = max(0, int(math.Floor(v)))
	}
	c.ApplyDamage(dmg)
	return dmg, true
}
