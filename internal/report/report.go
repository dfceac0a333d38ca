// Package report renders battle results and creature queries as plain text.
package report

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/display"
	"github.com/cory-johannsen/battlesim/internal/game/element"
)

// Battle renders a resolved battle as a turn-by-turn log.
//
// Precondition: res must be non-nil.
func Battle(res *combat.Result) string {
	return strings.Join(battleLines(res), "\n")
}

// BattleAborted renders the log produced before err stopped the battle,
// followed by an error line.
//
// Precondition: res and err must be non-nil.
func BattleAborted(res *combat.Result, err error) string {
	lines := battleLines(res)
	lines = append(lines, "", fmt.Sprintf("Error: the battle could not be completed: %v", err))
	return strings.Join(lines, "\n")
}

func battleLines(res *combat.Result) []string {
	var lines []string
	for _, e := range res.Events {
		switch e.Kind {
		case combat.EventBattleStart, combat.EventTurnOrder:
			lines = append(lines, e.Description+"\n")
		case combat.EventTurnStart:
			if e.Turn > 1 {
				lines = append(lines, "")
			}
			lines = append(lines, fmt.Sprintf("--- Turn %d ---", e.Turn))
		case combat.EventWinner:
			lines = append(lines, "--- Battle Over ---", e.Description)
		default:
			lines = append(lines, e.Description)
		}
	}
	return lines
}

// TypeEffectiveness answers a single attacking-vs-defending element query,
// e.g. "Fire vs Grass: Super effective (2x damage)".
//
// Postcondition: Returns an error wrapping element.ErrUnknownElement if
// attacking is not in chart.
func TypeEffectiveness(chart *element.Chart, attacking, defending string) (string, error) {
	return chart.Describe(element.Normalize(attacking), element.Normalize(defending), display.Proper)
}

// Weaknesses renders the type analysis of a creature with the given elements.
func Weaknesses(name string, elements []element.Element, b element.Breakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Type Analysis for %s ---\n", display.Proper(name))
	fmt.Fprintf(&sb, "Types: %s\n\n", strings.Join(elementNames(elements), ", "))

	section := func(title, detail string, entries []string, trailer string) {
		if len(entries) == 0 {
			fmt.Fprintf(&sb, "%s: None\n%s", title, trailer)
			return
		}
		fmt.Fprintf(&sb, "%s (%s):\n  %s\n%s", title, detail, strings.Join(entries, ", "), trailer)
	}
	section("Weaknesses", "takes extra damage", labelled(b.Weak), "\n")
	section("Resistances", "takes reduced damage", labelled(b.Resistant), "\n")
	immune := make([]string, 0, len(b.Immune))
	for _, e := range b.Immune {
		immune = append(immune, display.Proper(string(e.Element)))
	}
	section("Immunities", "no damage", immune, "")
	return sb.String()
}

func labelled(entries []element.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s (%s)", display.Proper(string(e.Element)), e.Label))
	}
	return out
}

func elementNames(elems []element.Element) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, display.Proper(string(e)))
	}
	return out
}
