// Package combat implements the two-creature battle engine.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/display"
	"github.com/cory-johannsen/battlesim/internal/game/element"
	"github.com/cory-johannsen/battlesim/internal/provider"
)

// Status is the ailment a combatant carries. A combatant holds at most one.
type Status string

const (
	StatusNone      Status = ""
	StatusParalysis Status = "paralysis"
	StatusBurn      Status = "burn"
	StatusPoison    Status = "poison"
)

// String returns the ailment name, or "none".
func (s Status) String() string {
	if s == StatusNone {
		return "none"
	}
	return string(s)
}

// ParseAilment maps a provider ailment name onto a Status.
//
// Postcondition: ok is false for every ailment other than paralysis, burn, and poison.
func ParseAilment(name string) (Status, bool) {
	switch Status(name) {
	case StatusParalysis, StatusBurn, StatusPoison:
		return Status(name), true
	default:
		return StatusNone, false
	}
}

// Positional stat slots as reported by the provider.
const (
	slotHP      = 0
	slotAttack  = 1
	slotDefense = 2
	slotSpeed   = 5
	statCount   = 6
)

// Combatant is one side of a battle. CurrentHP may go negative during a
// battle; DisplayHP clamps it for presentation.
type Combatant struct {
	ID        string
	Name      string
	MaxHP     int
	CurrentHP int
	Attack    int
	Defense   int
	Speed     int
	Elements  []element.Element
	// Actions are the opaque move references the combatant may draw from.
	Actions []string
	Status  Status
}

// NewCombatant builds a full-health Combatant from provider data.
//
// Precondition: c has the six positional stats, one or two elements, and
// positive hp, attack, and defense.
// Postcondition: Returns a Combatant with CurrentHP == MaxHP and StatusNone,
// or an error wrapping provider.ErrMalformed.
func NewCombatant(c provider.Creature) (*Combatant, error) {
	if len(c.Stats) < statCount {
		return nil, fmt.Errorf("%w: creature %q has %d stats, want %d", provider.ErrMalformed, c.Name, len(c.Stats), statCount)
	}
	if len(c.Elements) == 0 || len(c.Elements) > 2 {
		return nil, fmt.Errorf("%w: creature %q has %d elements", provider.ErrMalformed, c.Name, len(c.Elements))
	}
	hp, atk, def := c.Stats[slotHP].Base, c.Stats[slotAttack].Base, c.Stats[slotDefense].Base
	if hp <= 0 || atk <= 0 || def <= 0 {
		return nil, fmt.Errorf("%w: creature %q has non-positive hp, attack, or defense", provider.ErrMalformed, c.Name)
	}
	elems := make([]element.Element, 0, len(c.Elements))
	for _, e := range c.Elements {
		elems = append(elems, element.Normalize(e))
	}
	actions := make([]string, 0, len(c.Moves))
	for _, m := range c.Moves {
		actions = append(actions, m.Ref)
	}
	return &Combatant{
		ID:        c.Name,
		Name:      display.Proper(c.Name),
		MaxHP:     hp,
		CurrentHP: hp,
		Attack:    atk,
		Defense:   def,
		Speed:     c.Stats[slotSpeed].Base,
		Elements:  elems,
		Actions:   actions,
	}, nil
}

// IsFainted reports whether the combatant can no longer fight.
// Postcondition: Returns true iff CurrentHP <= 0.
func (c *Combatant) IsFainted() bool { return c.CurrentHP <= 0 }

// ApplyDamage subtracts amount from CurrentHP without clamping.
// Precondition: amount must be >= 0.
func (c *Combatant) ApplyDamage(amount int) { c.CurrentHP -= amount }

// DisplayHP returns CurrentHP clamped at zero.
func (c *Combatant) DisplayHP() int {
	if c.CurrentHP < 0 {
		return 0
	}
	return c.CurrentHP
}
