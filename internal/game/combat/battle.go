package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/element"
)

// Battle is a single encounter between two combatants. It runs as one
// sequential control flow and owns the mutable state of both combatants.
type Battle struct {
	id         uuid.UUID
	combatants [2]*Combatant
	resolvers  map[*Combatant]*ActionResolver
	chart      *element.Chart
	rules      *Rules
	roller     *dice.Roller
	logger     *zap.Logger
	events     []Event
	turn       int
	phase      Phase
}

// NewBattle prepares a battle between a and b, listed in that order.
//
// Precondition: a and b are distinct, full-health combatants; all other
// arguments must be non-nil.
// Postcondition: Returns a Battle in the Init state with a fresh ID.
func NewBattle(a, b *Combatant, moves MoveSource, roller *dice.Roller, rules *Rules, chart *element.Chart, logger *zap.Logger) *Battle {
	id := uuid.New()
	return &Battle{
		id:         id,
		combatants: [2]*Combatant{a, b},
		resolvers: map[*Combatant]*ActionResolver{
			a: NewActionResolver(a.ID, a.Actions, moves, roller),
			b: NewActionResolver(b.ID, b.Actions, moves, roller),
		},
		chart:  chart,
		rules:  rules,
		roller: roller,
		logger: logger.With(zap.String("battle_id", id.String())),
	}
}

// Run drives the battle to a resolved state.
//
// Postcondition: Always returns a non-nil Result holding every event produced.
// On success exactly one combatant has fainted and Result.Winner is the other.
// On a provider fault or cancellation the Result is unresolved and err is non-nil.
func (b *Battle) Run(ctx context.Context) (*Result, error) {
	ctx, span := otel.Tracer("battlesim/combat").Start(ctx, "combat.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("battle.id", b.id.String()),
		attribute.String("battle.combatant_a", b.combatants[0].ID),
		attribute.String("battle.combatant_b", b.combatants[1].ID),
	)

	a, c := b.combatants[0], b.combatants[1]
	attacker, defender := FirstMover(a, c)
	b.emit(Event{Kind: EventBattleStart, Actor: a.Name, Target: c.Name,
		Description: fmt.Sprintf("A battle is about to begin between %s and %s!", a.Name, c.Name)})
	b.emit(Event{Kind: EventTurnOrder, Actor: attacker.Name,
		Description: fmt.Sprintf("%s is faster and will attack first.", attacker.Name)})
	b.logger.Info("battle started",
		zap.String("first", attacker.ID),
		zap.String("second", defender.ID),
	)

	for {
		if err := ctx.Err(); err != nil {
			return b.abort(span, fmt.Errorf("battle interrupted before turn %d: %w", b.turn+1, err))
		}
		b.turn++
		b.enter(PhaseTurnStart)
		b.emit(Event{Kind: EventTurnStart, Actor: attacker.Name, Target: defender.Name,
			Description: fmt.Sprintf("Turn %d", b.turn)})
		over, err := b.playTurn(ctx, attacker, defender)
		if err != nil {
			return b.abort(span, err)
		}
		if over {
			break
		}
		b.enter(PhaseRoleSwap)
		attacker, defender = defender, attacker
	}

	winner := a
	if a.IsFainted() {
		winner = c
	}
	b.enter(PhaseResolved)
	b.emit(Event{Kind: EventWinner, Actor: winner.Name, HPAfter: winner.DisplayHP(),
		Description: fmt.Sprintf("The winner is %s!", winner.Name)})
	b.logger.Info("battle resolved",
		zap.String("winner", winner.ID),
		zap.Int("turns", b.turn),
	)
	span.SetAttributes(attribute.String("battle.winner", winner.ID), attribute.Int("battle.turns", b.turn))
	res := b.result()
	res.Winner = winner
	return res, nil
}

// playTurn runs one turn for attacker against defender.
//
// Postcondition: over is true iff a combatant fainted during this turn.
func (b *Battle) playTurn(ctx context.Context, attacker, defender *Combatant) (over bool, err error) {
	b.enter(PhaseParalysisCheck)
	if b.rules.Skips(attacker, b.roller) {
		b.enter(PhaseSkipped)
		b.emit(Event{Kind: EventParalyzed, Actor: attacker.Name, Status: attacker.Status,
			Description: fmt.Sprintf("%s is paralyzed and can't move!", attacker.Name)})
	} else {
		b.enter(PhaseAction)
		fainted, err := b.actionPhase(ctx, attacker, defender)
		if err != nil {
			return false, err
		}
		if fainted {
			return true, nil
		}
	}

	b.enter(PhaseStatusTick)
	dmg, ticked := b.rules.Tick(attacker)
	if !ticked {
		return false, nil
	}
	b.emit(Event{Kind: EventStatusDamage, Actor: attacker.Name, Target: attacker.Name,
		Damage: dmg, HPAfter: attacker.DisplayHP(), Status: attacker.Status,
		Description: fmt.Sprintf("%s took %d damage from its %s.", attacker.Name, dmg, attacker.Status)})
	return b.faintCheck(attacker), nil
}

// actionPhase resolves one action of attacker against defender.
//
// Postcondition: fainted is true iff defender fainted from the action.
func (b *Battle) actionPhase(ctx context.Context, attacker, defender *Combatant) (fainted bool, err error) {
	act, err := b.resolvers[attacker].Select(ctx)
	if err != nil {
		return false, err
	}
	b.emit(Event{Kind: EventActionUsed, Actor: attacker.Name, Target: defender.Name, Action: act.Name,
		Description: fmt.Sprintf("%s used %s!", attacker.Name, act.Name)})

	mult, err := b.chart.Effectiveness(act.Element, defender.Elements)
	if err != nil {
		if !errors.Is(err, element.ErrUnknownElement) {
			return false, err
		}
		b.logger.Warn("action element not in chart, treating as neutral",
			zap.String("action", act.ID),
			zap.String("element", string(act.Element)),
		)
		mult = 1
	}
	if text := effectivenessText(element.Classify(mult), defender.Name); text != "" {
		b.emit(Event{Kind: EventEffectiveness, Actor: attacker.Name, Target: defender.Name,
			Action: act.Name, Multiplier: mult, Description: text})
	}

	dmg := b.rules.Damage(attacker, defender, act, mult)
	defender.ApplyDamage(dmg)
	b.emit(Event{Kind: EventDamage, Actor: attacker.Name, Target: defender.Name, Action: act.Name,
		Damage: dmg, HPAfter: defender.DisplayHP(), Multiplier: mult,
		Description: fmt.Sprintf("%s took %d damage and has %d HP remaining.", defender.Name, dmg, defender.DisplayHP())})
	if b.faintCheck(defender) {
		return true, nil
	}

	if s, text, ok := b.rules.Inflict(defender, act, b.roller); ok {
		b.emit(Event{Kind: EventAilment, Actor: attacker.Name, Target: defender.Name, Action: act.Name,
			Status: s, Description: text})
	}
	return false, nil
}

// faintCheck records a faint event if c has fainted. Only a check that finds
// a fainted combatant enters PhaseFaintCheck.
func (b *Battle) faintCheck(c *Combatant) bool {
	if !c.IsFainted() {
		return false
	}
	b.enter(PhaseFaintCheck)
	b.emit(Event{Kind: EventFainted, Actor: c.Name,
		Description: fmt.Sprintf("%s fainted!", c.Name)})
	return true
}

func effectivenessText(class element.Class, defender string) string {
	switch class {
	case element.SuperEffective:
		return "It's super effective!"
	case element.Resisted:
		return "It's not very effective..."
	case element.Immune:
		return fmt.Sprintf("It doesn't affect %s...", defender)
	default:
		return ""
	}
}

// enter moves the state machine to p; events emitted afterwards carry it.
func (b *Battle) enter(p Phase) {
	b.phase = p
	b.logger.Debug("battle phase", zap.Int("turn", b.turn), zap.Stringer("phase", p))
}

func (b *Battle) emit(e Event) {
	e.Turn = b.turn
	e.Phase = b.phase
	b.events = append(b.events, e)
	b.logger.Debug("battle event",
		zap.Int("turn", e.Turn),
		zap.Stringer("phase", e.Phase),
		zap.String("kind", string(e.Kind)),
		zap.String("description", e.Description),
	)
}

func (b *Battle) abort(span trace.Span, err error) (*Result, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	b.logger.Warn("battle aborted", zap.Int("turn", b.turn), zap.Error(err))
	return b.result(), err
}

func (b *Battle) result() *Result {
	events := make([]Event, len(b.events))
	copy(events, b.events)
	return &Result{
		BattleID:   b.id,
		Combatants: b.combatants,
		Turns:      b.turn,
		Events:     events,
	}
}
