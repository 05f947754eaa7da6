// Package conformance is a self-hosted check suite for the engine. Each
// check declares a small spec tree with the public builders, runs it with a
// nested Run call, and verifies that ordering, failure isolation, filtering,
// and fixture management behave as documented.
//
// The suite runs two ways: under go test (conformance_test.go), and inside
// the command line tool, where it doubles as a demonstration suite.
package conformance
