// Package condition defines the status ailments a combatant can carry.
package condition

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed ailments.yaml
var defaultAilmentsYAML []byte

//go:embed ailments.lua
var defaultHooksLua string

// ConditionDef is the static definition of an ailment, loaded from YAML.
type ConditionDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// SkipChance is the percent chance the afflicted combatant loses its action phase.
	SkipChance int `yaml:"skip_chance"`
	// TickDivisor > 0 deals floor(MaxHP / TickDivisor) at the end of the afflicted combatant's turn.
	TickDivisor int `yaml:"tick_divisor"`
	// DamageMultiplier scales outgoing damage; 0 in YAML means unchanged (1).
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	// LuaOnApply names the hook returning the announcement when the ailment takes hold.
	LuaOnApply string `yaml:"lua_on_apply"`
	// LuaOnTick names the hook returning end-of-turn damage. It takes precedence over TickDivisor.
	LuaOnTick string `yaml:"lua_on_tick"`
}

// Ticks reports whether the ailment deals end-of-turn damage.
func (d *ConditionDef) Ticks() bool {
	return d.LuaOnTick != "" || d.TickDivisor > 0
}

// TickDamage returns the end-of-turn damage for a combatant with the given
// maximum HP, or 0 if this condition does not tick.
//
// Postcondition: Returns floor(maxHP / TickDivisor) when TickDivisor > 0.
func (d *ConditionDef) TickDamage(maxHP int) int {
	if d.TickDivisor <= 0 || maxHP <= 0 {
		return 0
	}
	return maxHP / d.TickDivisor
}

// ScaleDamage applies DamageMultiplier to dmg, flooring the result.
func (d *ConditionDef) ScaleDamage(dmg int) int {
	if d.DamageMultiplier == 1 {
		return dmg
	}
	return int(math.Floor(float64(dmg) * d.DamageMultiplier))
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	if def.DamageMultiplier == 0 {
		def.DamageMultiplier = 1
	}
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered ConditionDefs sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Load reads a YAML sequence of ConditionDefs and returns a populated Registry.
//
// Postcondition: Returns a non-nil Registry, or an error if the document fails
// to parse or holds an entry without an id.
func Load(r io.Reader) (*Registry, error) {
	var defs []ConditionDef
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing conditions: %w", err)
	}
	reg := NewRegistry()
	for i := range defs {
		if defs[i].ID == "" {
			return nil, fmt.Errorf("parsing conditions: entry %d has no id", i)
		}
		if defs[i].SkipChance < 0 || defs[i].SkipChance > 100 {
			return nil, fmt.Errorf("parsing conditions: %s skip_chance must be 0-100, got %d", defs[i].ID, defs[i].SkipChance)
		}
		reg.Register(&defs[i])
	}
	return reg, nil
}

// DefaultHooks returns the Lua source defining the hooks named by the
// built-in ailments.
func DefaultHooks() string {
	return defaultHooksLua
}

// Default returns a fresh Registry holding the built-in paralysis, burn, and
// poison definitions.
func Default() *Registry {
	reg, err := Load(bytes.NewReader(defaultAilmentsYAML))
	if err != nil {
		panic("condition: embedded ailments are invalid: " + err.Error())
	}
	return reg
}
