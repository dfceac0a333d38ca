package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/element"
	"github.com/cory-johannsen/battlesim/internal/provider"
	"github.com/cory-johannsen/battlesim/internal/report"
)

// Service implements the inbound operations shared by every transport.
// It holds no per-request state; concurrent calls are independent.
type Service struct {
	provider  provider.Provider
	chart     *element.Chart
	rules     *combat.Rules
	newSource func() dice.Source
	logger    *zap.Logger
}

// NewService creates a Service.
//
// Precondition: p, chart, rules, and logger must be non-nil.
// Postcondition: A zero cfg.Seed gives every battle crypto randomness; any other
// seed gives every battle the same reproducible stream.
func NewService(p provider.Provider, chart *element.Chart, rules *combat.Rules, cfg config.BattleConfig, logger *zap.Logger) *Service {
	newSource := dice.NewCryptoSource
	if cfg.Seed != 0 {
		seed := uint64(cfg.Seed)
		newSource = func() dice.Source { return dice.NewSeededSource(seed) }
	}
	return &Service{
		provider:  p,
		chart:     chart,
		rules:     rules,
		newSource: newSource,
		logger:    logger,
	}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func requireName(field, v string) error {
	if v == "" {
		return &Error{Message: fmt.Sprintf("%s not specified.", field), Err: ErrInvalidArgument}
	}
	return nil
}

// SimulateBattle runs a battle between two named creatures and returns its log.
//
// Postcondition: On a mid-battle fault the returned text holds the partial log
// and err is non-nil.
func (s *Service) SimulateBattle(ctx context.Context, nameA, nameB string) (string, error) {
	a, b := normalizeName(nameA), normalizeName(nameB)
	if err := errors.Join(requireName("First Pokémon name", a), requireName("Second Pokémon name", b)); err != nil {
		return "", err
	}

	var ca, cb provider.Creature
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ca, err = s.fetchCreature(gctx, a)
		return err
	})
	g.Go(func() (err error) {
		cb, err = s.fetchCreature(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	ta, err := combat.NewCombatant(ca)
	if err != nil {
		return "", creatureFault(a, err)
	}
	tb, err := combat.NewCombatant(cb)
	if err != nil {
		return "", creatureFault(b, err)
	}

	roller := dice.NewLoggedRoller(s.newSource(), s.logger)
	battle := combat.NewBattle(ta, tb, s.provider, roller, s.rules, s.chart, s.logger)
	res, err := battle.Run(ctx)
	if err != nil {
		msg := "The battle could not be completed."
		if errors.Is(err, combat.ErrNoUsableAction) {
			msg = "The battle could not be completed because a Pokémon has no damaging moves."
		}
		return report.BattleAborted(res, err), &Error{Message: msg, Err: err}
	}
	return report.Battle(res), nil
}

// TypeEffectiveness answers a single-pair effectiveness query.
func (s *Service) TypeEffectiveness(attacking, defending string) (string, error) {
	atk, def := normalizeName(attacking), normalizeName(defending)
	if err := errors.Join(requireName("Attacking type", atk), requireName("Defending type", def)); err != nil {
		return "", err
	}
	text, err := report.TypeEffectiveness(s.chart, atk, def)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("'%s' is not a valid Pokémon type.", atk), Err: err}
	}
	return text, nil
}

// WeaknessesAndResistances renders the type analysis of the named creature.
func (s *Service) WeaknessesAndResistances(ctx context.Context, name string) (string, error) {
	n := normalizeName(name)
	if err := requireName("Pokémon name", n); err != nil {
		return "", err
	}
	c, err := s.fetchCreature(ctx, n)
	if err != nil {
		return "", err
	}
	elems := make([]element.Element, 0, len(c.Elements))
	for _, e := range c.Elements {
		elems = append(elems, element.Normalize(e))
	}
	return report.Weaknesses(c.Name, elems, s.chart.Breakdown(elems)), nil
}

// CreatureReport renders the full report of the named creature. Evolution
// and move lookups that fail are left out of the report rather than failing it.
func (s *Service) CreatureReport(ctx context.Context, name string) (string, error) {
	n := normalizeName(name)
	if err := requireName("Pokémon name", n); err != nil {
		return "", err
	}
	c, err := s.fetchCreature(ctx, n)
	if err != nil {
		return "", err
	}

	sheet := report.CreatureSheet{Creature: c}
	refs := c.Moves[:min(len(c.Moves), report.DetailedMoves)]
	moves := make([]*provider.Move, len(refs))

	// Every goroutine swallows its own fault, so Wait never reports one.
	var g errgroup.Group
	g.Go(func() error {
		sheet.Evolution = s.evolution(ctx, c)
		return nil
	})
	for i, ref := range refs {
		g.Go(func() error {
			m, err := s.provider.Move(ctx, ref.Ref)
			if err != nil {
				s.logger.Warn("move lookup failed", zap.String("creature", c.Name), zap.String("move", ref.Name), zap.Error(err))
				return nil
			}
			moves[i] = &m
			return nil
		})
	}
	_ = g.Wait()

	for _, m := range moves {
		if m != nil {
			sheet.Moves = append(sheet.Moves, *m)
		}
	}
	return report.Creature(sheet), nil
}

// evolution resolves the creature's evolution chain, returning nil on any fault.
func (s *Service) evolution(ctx context.Context, c provider.Creature) []string {
	if c.SpeciesRef == "" {
		return nil
	}
	sp, err := s.provider.Species(ctx, c.SpeciesRef)
	if err != nil {
		s.logger.Warn("species lookup failed", zap.String("creature", c.Name), zap.Error(err))
		return nil
	}
	if sp.EvolutionChainRef == "" {
		return nil
	}
	root, err := s.provider.EvolutionChain(ctx, sp.EvolutionChainRef)
	if err != nil {
		s.logger.Warn("evolution chain lookup failed", zap.String("creature", c.Name), zap.Error(err))
		return nil
	}
	return provider.Flatten(root)
}

func (s *Service) fetchCreature(ctx context.Context, name string) (provider.Creature, error) {
	c, err := s.provider.Creature(ctx, name)
	if err != nil {
		s.logger.Warn("creature lookup failed", zap.String("creature", name), zap.Error(err))
		return provider.Creature{}, creatureFault(name, err)
	}
	return c, nil
}
