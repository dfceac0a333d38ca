// Package provider defines the contract of the external creature data source
// and the faults it can report.
package provider

import (
	"context"
	"errors"
)

// Fault taxonomy. Implementations wrap one of these so callers can use errors.Is.
var (
	// ErrUnavailable covers network errors, timeouts, and non-success responses.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrNotFound means the request was valid but nothing matched.
	ErrNotFound = errors.New("not found")
	// ErrMalformed means the payload did not have the expected shape.
	ErrMalformed = errors.New("malformed data")
)

// Stat is one base stat as reported by the provider.
type Stat struct {
	Name string
	Base int
}

// MoveRef is an unresolved reference to one of a creature's moves.
type MoveRef struct {
	Name string
	Ref  string
}

// Creature is the base data of one creature.
type Creature struct {
	ID     int
	Name   string
	Height int // decimetres
	Weight int // hectograms
	// Stats are positional: hp, attack, defense, special-attack, special-defense, speed.
	Stats      []Stat
	Elements   []string
	Abilities  []string
	Moves      []MoveRef
	SpeciesRef string
}

// Move is a resolved action.
type Move struct {
	Name    string
	Element string
	// Power, Accuracy, and PP are nil when the provider reports no value.
	Power         *int
	Accuracy      *int
	PP            *int
	Ailment       string
	AilmentChance int
	ShortEffect   string
}

// Species carries the metadata needed to locate an evolution chain.
type Species struct {
	Name              string
	EvolutionChainRef string
}

// EvolutionNode is one species in an evolution tree.
type EvolutionNode struct {
	Species   string
	EvolvesTo []*EvolutionNode
}

// Provider is the creature data source.
//
// All methods block until the lookup completes, fails, or ctx ends.
type Provider interface {
	Creature(ctx context.Context, name string) (Creature, error)
	Move(ctx context.Context, ref string) (Move, error)
	Species(ctx context.Context, ref string) (Species, error)
	EvolutionChain(ctx context.Context, ref string) (*EvolutionNode, error)
}
