package pokeapi

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/provider"
)

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokemonPayload struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Stats  []struct {
		BaseStat *int     `json:"base_stat"`
		Stat     namedRef `json:"stat"`
	} `json:"stats"`
	Types []struct {
		Slot int      `json:"slot"`
		Type namedRef `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability namedRef `json:"ability"`
	} `json:"abilities"`
	Moves []struct {
		Move namedRef `json:"move"`
	} `json:"moves"`
	Species namedRef `json:"species"`
}

func (p pokemonPayload) toCreature() (provider.Creature, error) {
	if p.Name == "" {
		return provider.Creature{}, fmt.Errorf("%w: creature payload has no name", provider.ErrMalformed)
	}
	c := provider.Creature{
		ID:         p.ID,
		Name:       p.Name,
		Height:     p.Height,
		Weight:     p.Weight,
		SpeciesRef: p.Species.URL,
	}
	for i, s := range p.Stats {
		if s.BaseStat == nil {
			return provider.Creature{}, fmt.Errorf("%w: %s stat %d has no base value", provider.ErrMalformed, p.Name, i)
		}
		c.Stats = append(c.Stats, provider.Stat{Name: s.Stat.Name, Base: *s.BaseStat})
	}
	for _, t := range p.Types {
		c.Elements = append(c.Elements, t.Type.Name)
	}
	for _, a := range p.Abilities {
		c.Abilities = append(c.Abilities, a.Ability.Name)
	}
	for _, m := range p.Moves {
		// Moves without a reference cannot be resolved.
		if m.Move.URL == "" {
			continue
		}
		c.Moves = append(c.Moves, provider.MoveRef{Name: m.Move.Name, Ref: m.Move.URL})
	}
	return c, nil
}

type movePayload struct {
	Name     string   `json:"name"`
	Power    *int     `json:"power"`
	Accuracy *int     `json:"accuracy"`
	PP       *int     `json:"pp"`
	Type     namedRef `json:"type"`
	Meta     *struct {
		Ailment       namedRef `json:"ailment"`
		AilmentChance int      `json:"ailment_chance"`
	} `json:"meta"`
	EffectEntries []struct {
		ShortEffect string   `json:"short_effect"`
		Language    namedRef `json:"language"`
	} `json:"effect_entries"`
}

func (m movePayload) toMove() (provider.Move, error) {
	if m.Name == "" {
		return provider.Move{}, fmt.Errorf("%w: move payload has no name", provider.ErrMalformed)
	}
	mv := provider.Move{
		Name:     m.Name,
		Element:  m.Type.Name,
		Power:    m.Power,
		Accuracy: m.Accuracy,
		PP:       m.PP,
	}
	if m.Meta != nil {
		mv.Ailment = m.Meta.Ailment.Name
		mv.AilmentChance = m.Meta.AilmentChance
	}
	for _, e := range m.EffectEntries {
		if e.Language.Name == "en" {
			mv.ShortEffect = e.ShortEffect
			break
		}
	}
	if mv.ShortEffect == "" && len(m.EffectEntries) > 0 {
		mv.ShortEffect = m.EffectEntries[0].ShortEffect
	}
	return mv, nil
}

type speciesPayload struct {
	Name           string   `json:"name"`
	EvolutionChain namedRef `json:"evolution_chain"`
}

type chainLink struct {
	Species   namedRef     `json:"species"`
	EvolvesTo []*chainLink `json:"evolves_to"`
}

type chainPayload struct {
	Chain *chainLink `json:"chain"`
}

// toTree converts the decoded chain into provider nodes with an explicit
// work list.
func (l *chainLink) toTree() *provider.EvolutionNode {
	type pair struct {
		src *chainLink
		dst *provider.EvolutionNode
	}
	root := &provider.EvolutionNode{Species: l.Species.Name}
	work := []pair{{src: l, dst: root}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		for _, child := range p.src.EvolvesTo {
			if child == nil {
				continue
			}
			n := &provider.EvolutionNode{Species: child.Species.Name}
			p.dst.EvolvesTo = append(p.dst.EvolvesTo, n)
			work = append(work, pair{src: child, dst: n})
		}
	}
	return root
}
