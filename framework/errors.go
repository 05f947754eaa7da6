package framework

import (
	"fmt"
)

// HookPhase names the lifecycle phase a hook belongs to.
type HookPhase string

const (
	PhaseBeforeAll  HookPhase = "beforeAll"
	PhaseBeforeEach HookPhase = "beforeEach"
	PhaseAfterEach  HookPhase = "afterEach"
	PhaseAfterAll   HookPhase = "afterAll"
)

// ActionFailure is the failure cause recorded when a leaf's own action raised.
// It wraps the action's error unchanged so errors.Is and errors.As reach the
// original cause.
type ActionFailure struct {
	Err error
}

func (e *ActionFailure) Error() string { return e.Err.Error() }

func (e *ActionFailure) Unwrap() error { return e.Err }

// HookFailure is the failure cause recorded when a hook raised. For beforeAll
// and afterAll hooks it appears inside a synthetic "<phase> hook" leaf entry
// owned by the branch; for beforeEach and afterEach hooks it becomes the
// affected leaf's own cause, since it is specific to that one test.
type HookFailure struct {
	Phase HookPhase
	Err   error
}

func (e *HookFailure) Error() string {
	return fmt.Sprintf("%s hook failed: %s", e.Phase, e.Err)
}

func (e *HookFailure) Unwrap() error { return e.Err }

// ConfigurationError reports a malformed input forest. It is the only error
// Run returns directly; everything that goes wrong during a run is captured
// inside the result tree instead.
type ConfigurationError struct {
	Path    Path
	Message string
}

func (e *ConfigurationError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("invalid forest: %s", e.Message)
	}
	return fmt.Sprintf("invalid node [%s]: %s", e.Path, e.Message)
}
