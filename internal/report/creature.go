package report

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/battlesim/internal/game/display"
	"github.com/cory-johannsen/battlesim/internal/provider"
)

// Limits on the move listings of a creature report.
const (
	DetailedMoves   = 5
	AdditionalMoves = 10
)

// CreatureSheet is everything a creature report shows.
type CreatureSheet struct {
	Creature provider.Creature
	// Evolution lists the chain's species breadth-first; nil when the chain
	// could not be resolved.
	Evolution []string
	// Moves are the resolved details of the first moves that could be fetched.
	Moves []provider.Move
}

var statLabels = []string{"HP", "Attack", "Defense", "Special Attack", "Special Defense", "Speed"}

// Creature renders a full creature report.
func Creature(s CreatureSheet) string {
	c := s.Creature
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Pokémon Report: %s ---\n", display.Proper(c.Name))
	fmt.Fprintf(&sb, "ID: %d\n", c.ID)
	fmt.Fprintf(&sb, "Types: %s\n", strings.Join(display.Propers(c.Elements), ", "))
	fmt.Fprintf(&sb, "Height: %s m\n", tenths(c.Height))
	fmt.Fprintf(&sb, "Weight: %s kg\n\n", tenths(c.Weight))

	sb.WriteString("Base Stats:\n")
	total := 0
	for i, label := range statLabels {
		v := 0
		if i < len(c.Stats) {
			v = c.Stats[i].Base
		}
		total += v
		fmt.Fprintf(&sb, "  - %s: %d\n", label, v)
	}
	fmt.Fprintf(&sb, "  - Total: %d\n\n", total)

	fmt.Fprintf(&sb, "Abilities: %s\n\n", strings.Join(display.Names(c.Abilities), ", "))
	fmt.Fprintf(&sb, "Evolution Chain: %s\n\n", evolution(s.Evolution))

	sb.WriteString("Notable Moves (with details):\n")
	for _, m := range s.Moves {
		fmt.Fprintf(&sb, "  • %s (%s) - Power: %s, Accuracy: %s, PP: %s - %s\n",
			display.Name(m.Name), display.Proper(m.Element),
			orNA(m.Power), orNA(m.Accuracy), orNA(m.PP), effect(m.ShortEffect))
	}

	if extra := additional(c.Moves); len(extra) > 0 {
		fmt.Fprintf(&sb, "\nAdditional Moves: %s...", strings.Join(extra, ", "))
	}
	return sb.String()
}

func evolution(chain []string) string {
	switch len(chain) {
	case 0:
		return "None"
	case 1:
		return "Does not evolve"
	default:
		return strings.Join(display.Propers(chain), " → ")
	}
}

func additional(refs []provider.MoveRef) []string {
	if len(refs) <= DetailedMoves {
		return nil
	}
	end := min(len(refs), DetailedMoves+AdditionalMoves)
	out := make([]string, 0, end-DetailedMoves)
	for _, r := range refs[DetailedMoves:end] {
		out = append(out, display.Name(r.Name))
	}
	return out
}

// tenths formats a value stored in tenths of a unit, e.g. 4 -> "0.4", 60 -> "6.0".
func tenths(v int) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}

func orNA(v *int) string {
	if v == nil || *v == 0 {
		return "N/A"
	}
	return fmt.Sprint(*v)
}

func effect(s string) string {
	if s == "" {
		return "No effect description"
	}
	return s
}
