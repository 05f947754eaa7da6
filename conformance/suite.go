package conformance

import (
	"github.com/specwalk/specwalk/framework"
)

// Register adds every conformance group to reg.
func Register(reg *framework.Registry) {
	reg.Add(
		orderingGroup(),
		failureGroup(),
		filteringGroup(),
		fixtureGroup(),
	)
}
