package dispatch

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// operationRegistry maps operation names to their implementations. It is
// populated once at startup and read-only afterwards.
type operationRegistry struct {
	mu     sync.RWMutex
	ops    map[string]Operation
	sealed bool
}

func newOperationRegistry() *operationRegistry {
	return &operationRegistry{
		ops: make(map[string]Operation),
	}
}

func (r *operationRegistry) register(op Operation) error {
	if op == nil {
		return fmt.Errorf("operation cannot be nil")
	}
	name := op.Definition().Name
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("registry is sealed, cannot register %s", name)
	}
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %s already registered", name)
	}
	r.ops[name] = op
	return nil
}

// seal freezes the registry; later registrations fail.
func (r *operationRegistry) seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

func (r *operationRegistry) get(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

func (r *operationRegistry) list() []string {
	r.mu.RLock()
	names := slices.Collect(maps.Keys(r.ops))
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (r *operationRegistry) all() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := make([]Operation, 0, len(r.ops))
	for _, name := range slices.Sorted(maps.Keys(r.ops)) {
		ops = append(ops, r.ops[name])
	}
	return ops
}
