package framework

import "sync"

// Registry accumulates declarations contributed by multiple packages before
// a run. Suites call Add from their registration functions; the runner then
// takes a snapshot with Forest. A zero Registry is not usable, call
// NewRegistry.
type Registry struct {
	lock     sync.Mutex
	elements []Element
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends elements in declaration order.
func (r *Registry) Add(elements ...Element) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.elements = append(r.elements, elements...)
}

// Forest builds a runnable forest from everything added so far. Later Add
// calls do not affect forests already built.
func (r *Registry) Forest() []Node {
	r.lock.Lock()
	defer r.lock.Unlock()
	return Forest(r.elements...)
}
