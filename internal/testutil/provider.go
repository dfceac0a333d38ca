// Package testutil provides test helpers shared across packages, chiefly an
// in-memory provider.Provider seeded with a few well-known creatures.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/battlesim/internal/provider"
)

// Provider serves creature data from memory. Faults registered with Fail are
// keyed by creature name or reference and take precedence over stored data.
//
// Fixtures: pikachu (electric, fastest), bulbasaur (grass/poison), and
// magikarp (water, knows only a move without power, no species).
type Provider struct {
	mu        sync.Mutex
	creatures map[string]provider.Creature
	moves     map[string]provider.Move
	species   map[string]provider.Species
	chains    map[string]*provider.EvolutionNode
	errs      map[string]error
	calls     map[string]int
}

func intp(v int) *int { return &v }

func stats(hp, atk, def, spa, spd, spe int) []provider.Stat {
	return []provider.Stat{
		{Name: "hp", Base: hp}, {Name: "attack", Base: atk}, {Name: "defense", Base: def},
		{Name: "special-attack", Base: spa}, {Name: "special-defense", Base: spd}, {Name: "speed", Base: spe},
	}
}

// NewProvider returns a Provider holding the fixtures.
func NewProvider() *Provider {
	return &Provider{
		creatures: map[string]provider.Creature{
			"pikachu": {
				ID: 25, Name: "pikachu", Height: 4, Weight: 60,
				Stats:      stats(35, 55, 40, 50, 50, 90),
				Elements:   []string{"electric"},
				Abilities:  []string{"static", "lightning-rod"},
				Moves:      []provider.MoveRef{{Name: "thunder-shock", Ref: "move/84"}, {Name: "growl", Ref: "move/45"}},
				SpeciesRef: "species/25",
			},
			"bulbasaur": {
				ID: 1, Name: "bulbasaur", Height: 7, Weight: 69,
				Stats:      stats(45, 49, 49, 65, 65, 45),
				Elements:   []string{"grass", "poison"},
				Abilities:  []string{"overgrow"},
				Moves:      []provider.MoveRef{{Name: "vine-whip", Ref: "move/22"}, {Name: "tackle", Ref: "move/33"}},
				SpeciesRef: "species/1",
			},
			"magikarp": {
				ID: 129, Name: "magikarp", Height: 9, Weight: 100,
				Stats:    stats(20, 10, 55, 15, 20, 80),
				Elements: []string{"water"},
				Moves:    []provider.MoveRef{{Name: "splash", Ref: "move/150"}},
			},
		},
		moves: map[string]provider.Move{
			"move/84":  {Name: "thunder-shock", Element: "electric", Power: intp(40), Accuracy: intp(100), PP: intp(30), Ailment: "paralysis", AilmentChance: 10, ShortEffect: "Has a chance to paralyze the target."},
			"move/45":  {Name: "growl", Element: "normal", Accuracy: intp(100), PP: intp(40), Ailment: "none"},
			"move/22":  {Name: "vine-whip", Element: "grass", Power: intp(45), Accuracy: intp(100), PP: intp(25)},
			"move/33":  {Name: "tackle", Element: "normal", Power: intp(40), Accuracy: intp(100), PP: intp(35)},
			"move/150": {Name: "splash", Element: "normal", PP: intp(40)},
		},
		species: map[string]provider.Species{
			"species/25": {Name: "pikachu", EvolutionChainRef: "chain/10"},
			"species/1":  {Name: "bulbasaur", EvolutionChainRef: "chain/1"},
		},
		chains: map[string]*provider.EvolutionNode{
			"chain/10": {Species: "pichu", EvolvesTo: []*provider.EvolutionNode{
				{Species: "pikachu", EvolvesTo: []*provider.EvolutionNode{{Species: "raichu"}}},
			}},
			"chain/1": {Species: "bulbasaur", EvolvesTo: []*provider.EvolutionNode{
				{Species: "ivysaur", EvolvesTo: []*provider.EvolutionNode{{Species: "venusaur"}}},
			}},
		},
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

// Fail makes every later lookup of key return err.
func (f *Provider) Fail(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

// Calls reports how many lookups of key have been made.
func (f *Provider) Calls(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *Provider) lookup(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	return f.errs[key]
}

var _ provider.Provider = (*Provider)(nil)

func (f *Provider) Creature(_ context.Context, name string) (provider.Creature, error) {
	if err := f.lookup(name); err != nil {
		return provider.Creature{}, err
	}
	c, ok := f.creatures[name]
	if !ok {
		return provider.Creature{}, fmt.Errorf("%w: pokemon %s", provider.ErrNotFound, name)
	}
	return c, nil
}

func (f *Provider) Move(_ context.Context, ref string) (provider.Move, error) {
	if err := f.lookup(ref); err != nil {
		return provider.Move{}, err
	}
	m, ok := f.moves[ref]
	if !ok {
		return provider.Move{}, fmt.Errorf("%w: move %s", provider.ErrNotFound, ref)
	}
	return m, nil
}

func (f *Provider) Species(_ context.Context, ref string) (provider.Species, error) {
	if err := f.lookup(ref); err != nil {
		return provider.Species{}, err
	}
	s, ok := f.species[ref]
	if !ok {
		return provider.Species{}, fmt.Errorf("%w: species %s", provider.ErrNotFound, ref)
	}
	return s, nil
}

func (f *Provider) EvolutionChain(_ context.Context, ref string) (*provider.EvolutionNode, error) {
	if err := f.lookup(ref); err != nil {
		return nil, err
	}
	n, ok := f.chains[ref]
	if !ok {
		return nil, fmt.Errorf("%w: chain %s", provider.ErrNotFound, ref)
	}
	return n, nil
}
