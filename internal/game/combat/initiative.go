package combat

// FirstMover orders two combatants by Speed for the opening turn.
//
// Postcondition: Ties go to a.
func FirstMover(a, b *Combatant) (first, second *Combatant) {
	if a.Speed >= b.Speed {
		return a, b
	}
	return b, a
}
