package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/display"
	"github.com/cory-johannsen/battlesim/internal/game/element"
	"github.com/cory-johannsen/battlesim/internal/provider"
)

// ErrNoUsableAction is returned when none of a combatant's actions has power.
var ErrNoUsableAction = errors.New("no usable action")

// Action is a resolved, usable move.
type Action struct {
	ID            string
	Name          string
	Element       element.Element
	Power         int
	Ailment       string
	AilmentChance int
}

// ActionFromMove converts a provider move into an Action.
//
// Postcondition: ok is true iff the move reports a positive power.
func ActionFromMove(m provider.Move) (Action, bool) {
	if m.Power == nil || *m.Power <= 0 {
		return Action{}, false
	}
	return Action{
		ID:            m.Name,
		Name:          display.Name(m.Name),
		Element:       element.Normalize(m.Element),
		Power:         *m.Power,
		Ailment:       m.Ailment,
		AilmentChance: m.AilmentChance,
	}, true
}

// MoveSource resolves an opaque move reference.
type MoveSource interface {
	Move(ctx context.Context, ref string) (provider.Move, error)
}

// ActionResolver selects uniformly among one combatant's usable actions for
// the lifetime of a single battle. Each reference is fetched at most once:
// usable moves are memoized and unusable references leave the candidate pool,
// so selection terminates even when nothing is usable.
//
// An ActionResolver is not safe for concurrent use.
type ActionResolver struct {
	owner    string
	moves    MoveSource
	roller   *dice.Roller
	pool     []string
	resolved map[string]Action
}

// NewActionResolver creates a resolver over refs.
//
// Precondition: moves and roller must be non-nil.
func NewActionResolver(owner string, refs []string, moves MoveSource, roller *dice.Roller) *ActionResolver {
	pool := make([]string, len(refs))
	copy(pool, refs)
	return &ActionResolver{
		owner:    owner,
		moves:    moves,
		roller:   roller,
		pool:     pool,
		resolved: make(map[string]Action),
	}
}

// Remaining returns the number of references not yet known to be unusable.
func (r *ActionResolver) Remaining() int { return len(r.pool) }

// Select draws a usable action.
//
// Postcondition: Returns an Action with Power > 0, ErrNoUsableAction once every
// reference has proven unusable, or the provider's error wrapped with the
// failing reference.
func (r *ActionResolver) Select(ctx context.Context) (Action, error) {
	for len(r.pool) > 0 {
		i := r.roller.Pick(r.owner+" action", len(r.pool))
		ref := r.pool[i]
		if a, ok := r.resolved[ref]; ok {
			return a, nil
		}
		m, err := r.moves.Move(ctx, ref)
		if err != nil {
			return Action{}, fmt.Errorf("resolving action %s for %s: %w", ref, r.owner, err)
		}
		if a, ok := ActionFromMove(m); ok {
			r.resolved[ref] = a
			return a, nil
		}
		last := len(r.pool) - 1
		r.pool[i] = r.pool[last]
		r.pool = r.pool[:last]
	}
	return Action{}, fmt.Errorf("%s: %w", r.owner, ErrNoUsableAction)
}
