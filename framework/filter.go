package framework

// HasFocused reports whether the node itself, or any descendant of a branch,
// carries a focus marker.
func HasFocused(n Node) bool {
	if n.focused {
		return true
	}
	for _, c := range n.children {
		if HasFocused(c) {
			return true
		}
	}
	return false
}

// FilterFocused prunes a forest down to its focused subtrees. When no node in
// the whole forest is focused the input is returned unchanged. Otherwise a
// focused node is kept whole, with every descendant, focused or not; an
// unfocused leaf is dropped; and an unfocused branch survives, children
// recursively filtered and hooks intact, only when at least one focused
// descendant survives beneath it. A branch left without surviving descendants
// is dropped entirely, so its beforeAll and afterAll hooks never run.
//
// Run applies this once, globally, before execution starts; it is exported so
// tooling can apply the same decision without running anything.
func FilterFocused(forest []Node) []Node {
	anyFocused := false
	for _, n := range forest {
		if HasFocused(n) {
			anyFocused = true
			break
		}
	}
	if !anyFocused {
		return forest
	}
	filtered := make([]Node, 0, len(forest))
	for _, n := range forest {
		if kept, ok := filterNode(n); ok {
			filtered = append(filtered, kept)
		}
	}
	return filtered
}

func filterNode(n Node) (Node, bool) {
	if n.focused {
		return n, true
	}
	if n.kind != KindBranch {
		return Node{}, false
	}
	var kept []Node
	for _, c := range n.children {
		if fc, ok := filterNode(c); ok {
			kept = append(kept, fc)
		}
	}
	if len(kept) == 0 {
		return Node{}, false
	}
	out := n // hooks and metadata carry over
	out.children = kept
	return out, true
}
