package provider

// Flatten lists the species of an evolution tree depth-first, each parent
// before its children and siblings in order. Traversal uses an explicit stack
// so the depth of the external tree never grows the call stack.
//
// Postcondition: Returns nil for a nil root.
func Flatten(root *EvolutionNode) []string {
	if root == nil {
		return nil
	}
	var out []string
	stack := []*EvolutionNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		out = append(out, n.Species)
		for i := len(n.EvolvesTo) - 1; i >= 0; i-- {
			stack = append(stack, n.EvolvesTo[i])
		}
	}
	return out
}
