package framework

// Element is anything that may appear in a Branch's declaration list: child
// nodes and hook registrations. The interface is sealed; the builder
// functions in this package produce every valid implementation.
type Element interface {
	element()
}

func (n Node) element() {}

type hookEntry struct {
	phase  HookPhase
	action Action
}

func (h hookEntry) element() {}

// BeforeAll registers a hook that runs once, before any of the enclosing
// branch's children execute.
func BeforeAll(action Action) Element {
	return hookEntry{phase: PhaseBeforeAll, action: action}
}

// BeforeEach registers a hook that runs before every leaf in the enclosing
// branch's subtree.
func BeforeEach(action Action) Element {
	return hookEntry{phase: PhaseBeforeEach, action: action}
}

// AfterEach registers a hook that runs after every leaf in the enclosing
// branch's subtree, even when the leaf failed.
func AfterEach(action Action) Element {
	return hookEntry{phase: PhaseAfterEach, action: action}
}

// AfterAll registers a hook that runs once, after the enclosing branch's
// children have executed (or been skipped by a beforeAll failure).
func AfterAll(action Action) Element {
	return hookEntry{phase: PhaseAfterAll, action: action}
}

// Leaf declares a single test case.
func Leaf(description string, action Action) Node {
	return Node{
		kind:        KindLeaf,
		description: description,
		action:      action,
		metadata:    callerMetadata(2),
	}
}

// FocusLeaf declares a test case with a focus marker. When any focus marker
// exists in a forest, Run executes only focused nodes and their descendants.
func FocusLeaf(description string, action Action) Node {
	return Node{
		kind:        KindLeaf,
		description: description,
		action:      action,
		focused:     true,
		metadata:    callerMetadata(2),
	}
}

// SkipLeaf declares a test case whose action is never invoked; its outcome is
// always skipped. The action is kept only so the declaration still compiles
// and can be un-skipped by renaming the call.
func SkipLeaf(description string, action Action) Node {
	return Node{
		kind:        KindLeaf,
		description: description,
		action:      action,
		skipped:     true,
		metadata:    callerMetadata(2),
	}
}

// SkipLeafWithReason is SkipLeaf with an explanation that reporters can show.
func SkipLeafWithReason(description, reason string, action Action) Node {
	return Node{
		kind:        KindLeaf,
		description: description,
		action:      action,
		skipped:     true,
		skipReason:  reason,
		metadata:    callerMetadata(2),
	}
}

// PendingLeaf declares a test case that has a description but no
// implementation yet. It is reported as skipped with reason "pending".
func PendingLeaf(description string) Node {
	return Node{
		kind:        KindLeaf,
		description: description,
		skipped:     true,
		skipReason:  "pending",
		metadata:    callerMetadata(2),
	}
}

// Branch declares a grouping of child nodes, optionally owning hooks. Hook
// registrations may appear anywhere in the element list; they are extracted
// from the exposed child list and concatenated per hook kind in registration
// order. Only the relative order within one hook kind matters, never a hook's
// position among sibling children.
func Branch(description string, elements ...Element) Node {
	return newBranch(description, elements, false, callerMetadata(2))
}

// FocusBranch declares a branch with a focus marker; the branch and every
// descendant survive focus filtering whole.
func FocusBranch(description string, elements ...Element) Node {
	return newBranch(description, elements, true, callerMetadata(2))
}

// Forest assembles top-level elements into a root list for Run. Hook
// registrations at the top level have no enclosing branch; when any are
// present the whole list is wrapped in an implicit unnamed root branch that
// owns them, so stray hooks are tolerated rather than rejected. The implicit
// branch contributes nothing to result paths.
func Forest(elements ...Element) []Node {
	for _, e := range elements {
		if _, ok := e.(hookEntry); ok {
			return []Node{newBranch("", elements, false, Metadata{})}
		}
	}
	nodes := make([]Node, 0, len(elements))
	for _, e := range elements {
		if n, ok := e.(Node); ok {
			nodes = append(nodes, n)
		} else {
			// A nil element, or something else that is not a node. Recorded as
			// an invalid node so ValidateForest reports it instead of it being
			// silently dropped.
			nodes = append(nodes, Node{})
		}
	}
	return nodes
}

func newBranch(description string, elements []Element, focused bool, md Metadata) Node {
	n := Node{
		kind:        KindBranch,
		description: description,
		focused:     focused,
		metadata:    md,
	}
	for _, e := range elements {
		switch v := e.(type) {
		case Node:
			n.children = append(n.children, v)
		case hookEntry:
			switch v.phase {
			case PhaseBeforeAll:
				n.hooks.BeforeAll = append(n.hooks.BeforeAll, v.action)
			case PhaseBeforeEach:
				n.hooks.BeforeEach = append(n.hooks.BeforeEach, v.action)
			case PhaseAfterEach:
				n.hooks.AfterEach = append(n.hooks.AfterEach, v.action)
			case PhaseAfterAll:
				n.hooks.AfterAll = append(n.hooks.AfterAll, v.action)
			}
		default:
			n.children = append(n.children, Node{})
		}
	}
	return n
}
