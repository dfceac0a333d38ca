package combat_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/element"
	"github.com/cory-johannsen/battlesim/internal/provider"
)

// fakeMoves is an in-memory MoveSource that counts lookups per reference.
type fakeMoves struct {
	mu    sync.Mutex
	moves map[string]provider.Move
	errs  map[string]error
	calls map[string]int
}

func newFakeMoves() *fakeMoves {
	return &fakeMoves{
		moves: make(map[string]provider.Move),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeMoves) add(ref, name, elem string, power int) {
	m := provider.Move{Name: name, Element: elem}
	if power >= 0 {
		p := power
		m.Power = &p
	}
	f.moves[ref] = m
}

func (f *fakeMoves) Move(_ context.Context, ref string) (provider.Move, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[ref]++
	if err, ok := f.errs[ref]; ok {
		return provider.Move{}, err
	}
	m, ok := f.moves[ref]
	if !ok {
		return provider.Move{}, fmt.Errorf("%w: move %s", provider.ErrNotFound, ref)
	}
	return m, nil
}

// seqSource replays vals modulo the requested bound.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

// panicSource fails the test if any random draw is made.
type panicSource struct{}

func (panicSource) Intn(int) int { panic("unexpected random draw") }

func newCombatant(id string, hp, atk, def, spd int, refs []string, elems ...element.Element) *combat.Combatant {
	if len(elems) == 0 {
		elems = []element.Element{"normal"}
	}
	return &combat.Combatant{
		ID:        id,
		Name:      id,
		MaxHP:     hp,
		CurrentHP: hp,
		Attack:    atk,
		Defense:   def,
		Speed:     spd,
		Elements:  elems,
		Actions:   refs,
	}
}
