// Package framework contains the core engine of the specwalk test framework:
// the specification tree model, the builders that assemble nested declarations
// into an immutable tree, the focus filter, and the runner that walks a tree
// executing each test with correctly ordered setup and teardown.
//
// The general model is:
//
// 1. Test code declares a forest of branches and leaves with the builder
// functions (Branch, Leaf, and their focused/skipped variants). A branch may
// own setup and teardown hooks, registered inline among its children with
// BeforeAll, BeforeEach, AfterEach and AfterAll.
//
// 2. Run walks the forest with a single logical worker. Hooks accumulate down
// the tree, so a leaf sees every enclosing branch's beforeEach hooks from the
// outside in and every afterEach hook from the inside out. Failures in hooks
// and actions are captured as values in the produced result tree; the runner
// itself never panics or aborts mid-run.
//
// 3. The produced Results mirror the shape of the input forest and can be
// folded into a Summary, flattened into a failure list, or fed to any
// reporter. The console package in this repository is one such reporter.
//
// Actions are opaque to the engine: it only cares whether an action returned
// an error (or panicked), never what assertion library produced it.
package framework
