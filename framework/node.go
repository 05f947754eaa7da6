package framework

import (
	"context"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Action is a single executable step: a leaf body or a hook. It either
// completes normally or reports a cause by returning a non-nil error. A panic
// inside an action is captured by the runner and treated the same way. The
// context is the run's context; long-running actions should honor its
// cancellation.
type Action func(ctx context.Context) error

// Kind discriminates the two node shapes in a specification tree.
type Kind int

const (
	// KindBranch is a named grouping of child nodes, optionally owning hooks.
	KindBranch Kind = iota + 1
	// KindLeaf is a single executable test case.
	KindLeaf
)

// A zero Kind marks a Node that did not come from a builder function;
// ValidateForest rejects such nodes.

func (k Kind) String() string {
	switch k {
	case KindBranch:
		return "branch"
	case KindLeaf:
		return "leaf"
	default:
		return "invalid"
	}
}

// Node is one node of a built specification tree: either a leaf (a test case)
// or a branch (a grouping that may own hooks and children). Nodes are created
// by the builder functions and are immutable from then on; all fields are
// private and accessors return copies where a reference type would otherwise
// leak.
type Node struct {
	kind        Kind
	description string
	action      Action
	hooks       HookSet
	children    []Node
	metadata    Metadata
	focused     bool
	skipped     bool
	skipReason  string
}

// HookSet holds a branch's hooks as four ordered lists. The order within each
// list is the registration order and is the order the runner invokes them in.
type HookSet struct {
	BeforeAll  []Action
	BeforeEach []Action
	AfterEach  []Action
	AfterAll   []Action
}

// Kind reports whether the node is a branch or a leaf.
func (n Node) Kind() Kind { return n.kind }

// Description returns the node's descriptive name. It may be empty for an
// implicit or intentionally unnamed branch.
func (n Node) Description() string { return n.description }

// Focused reports whether the node was declared with a focus marker.
func (n Node) Focused() bool { return n.focused }

// Skipped reports whether the node was declared with a skip marker.
func (n Node) Skipped() bool { return n.skipped }

// SkipReason returns the declared skip reason, if any.
func (n Node) SkipReason() string { return n.skipReason }

// Metadata returns the node's metadata bag.
func (n Node) Metadata() Metadata { return n.metadata }

// Children returns a copy of a branch's child list, in declaration order.
// Declaration order is execution order.
func (n Node) Children() []Node {
	return append([]Node(nil), n.children...)
}

// Hooks returns a copy of a branch's hook set.
func (n Node) Hooks() HookSet {
	return HookSet{
		BeforeAll:  append([]Action(nil), n.hooks.BeforeAll...),
		BeforeEach: append([]Action(nil), n.hooks.BeforeEach...),
		AfterEach:  append([]Action(nil), n.hooks.AfterEach...),
		AfterAll:   append([]Action(nil), n.hooks.AfterAll...),
	}
}

// WithMetadata returns a copy of the node with one more metadata entry. The
// receiver is not modified, so trees already assembled from this node are
// unaffected.
func (n Node) WithMetadata(key string, value ldvalue.Value) Node {
	n.metadata = n.metadata.With(key, value)
	return n
}

// Path identifies a node by the descriptions of its ancestors, outermost
// first. Empty descriptions (implicit root branches) contribute no element.
type Path []string

func (p Path) String() string {
	return strings.Join(p, "/")
}

func (p Path) child(name string) Path {
	if name == "" {
		return p
	}
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, name)
}
