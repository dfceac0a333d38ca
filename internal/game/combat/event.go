package combat

import (
	"github.com/google/uuid"
)

// Phase is a state of the battle state machine.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseTurnStart
	PhaseParalysisCheck
	PhaseAction
	PhaseSkipped
	PhaseFaintCheck
	PhaseStatusTick
	PhaseRoleSwap
	PhaseResolved
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseTurnStart:
		return "turn_start"
	case PhaseParalysisCheck:
		return "paralysis_check"
	case PhaseAction:
		return "action"
	case PhaseSkipped:
		return "skipped"
	case PhaseFaintCheck:
		return "faint_check"
	case PhaseStatusTick:
		return "status_tick"
	case PhaseRoleSwap:
		return "role_swap"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// EventKind identifies what an Event records.
type EventKind string

const (
	EventBattleStart   EventKind = "battle_start"
	EventTurnOrder     EventKind = "turn_order"
	EventTurnStart     EventKind = "turn_start"
	EventParalyzed     EventKind = "paralyzed"
	EventActionUsed    EventKind = "action_used"
	EventEffectiveness EventKind = "effectiveness"
	EventDamage        EventKind = "damage"
	EventAilment       EventKind = "ailment"
	EventStatusDamage  EventKind = "status_damage"
	EventFainted       EventKind = "fainted"
	EventWinner        EventKind = "winner"
)

// Event is one structured entry of the battle log.
type Event struct {
	Turn        int
	Phase       Phase
	Kind        EventKind
	Actor       string
	Target      string
	Action      string
	Description string
	// Damage is the HP removed by this event, if any.
	Damage int
	// HPAfter is the affected combatant's clamped HP after Damage was applied.
	HPAfter    int
	Multiplier float64
	Status     Status
}

// Result is the outcome of a battle. Winner is nil when the battle was
// aborted before reaching the resolved state.
type Result struct {
	BattleID   uuid.UUID
	Combatants [2]*Combatant
	Winner     *Combatant
	Turns      int
	Events     []Event
}

// Resolved reports whether the battle reached a winner.
func (r *Result) Resolved() bool { return r.Winner != nil }
