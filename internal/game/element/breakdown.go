package element

// Entry is one attacking element in a breakdown bucket, with its multiplier
// label: "4x"/"2x" for weaknesses, "0.25x"/"0.5x" for resistances, "0x" for immunities.
type Entry struct {
	Element    Element
	Multiplier float64
	Label      string
}

// Breakdown partitions the chart's elements by how they fare against a
// defending element set. Elements with a neutral compound multiplier appear
// in no bucket.
type Breakdown struct {
	Weak      []Entry
	Resistant []Entry
	Immune    []Entry
}

// Breakdown computes the weakness/resistance/immunity partition for defending.
//
// Postcondition: every chart element appears in at most one bucket, in chart order.
func (c *Chart) Breakdown(defending []Element) Breakdown {
	var b Breakdown
	for _, atk := range c.order {
		m, err := c.Effectiveness(atk, defending)
		if err != nil {
			// atk comes from the chart itself.
			continue
		}
		switch {
		case m >= 2:
			label := "2x"
			if m == 4 {
				label = "4x"
			}
			b.Weak = append(b.Weak, Entry{Element: atk, Multiplier: m, Label: label})
		case m > 0 && m <= 0.5:
			label := "0.5x"
			if m == 0.25 {
				label = "0.25x"
			}
			b.Resistant = append(b.Resistant, Entry{Element: atk, Multiplier: m, Label: label})
		case m == 0:
			b.Immune = append(b.Immune, Entry{Element: atk, Multiplier: 0, Label: "0x"})
		}
	}
	return b
}
