package framework

import (
	"fmt"
)

// ValidateForest checks that every node in the forest came from a builder
// function and is runnable: non-skipped leaves must have an action, and no
// registered hook may be nil. Run calls this before doing anything else, so a
// malformed forest fails fast instead of producing a half-meaningful result
// tree.
func ValidateForest(forest []Node) error {
	for _, n := range forest {
		if err := validateNode(nil, n); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(parent Path, n Node) error {
	path := parent.child(n.description)
	switch n.kind {
	case KindLeaf:
		if n.action == nil && !n.skipped {
			return &ConfigurationError{Path: path, Message: "leaf has no action"}
		}
	case KindBranch:
		if err := validateHooks(path, n.hooks); err != nil {
			return err
		}
		for _, c := range n.children {
			if err := validateNode(path, c); err != nil {
				return err
			}
		}
	default:
		return &ConfigurationError{Path: path, Message: "node was not created by a builder function"}
	}
	return nil
}

func validateHooks(path Path, hooks HookSet) error {
	lists := []struct {
		phase   HookPhase
		actions []Action
	}{
		{PhaseBeforeAll, hooks.BeforeAll},
		{PhaseBeforeEach, hooks.BeforeEach},
		{PhaseAfterEach, hooks.AfterEach},
		{PhaseAfterAll, hooks.AfterAll},
	}
	for _, l := range lists {
		for i, a := range l.actions {
			if a == nil {
				return &ConfigurationError{
					Path:    path,
					Message: fmt.Sprintf("%s hook %d of %d is nil", l.phase, i+1, len(l.actions)),
				}
			}
		}
	}
	return nil
}
